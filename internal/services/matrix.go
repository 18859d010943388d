package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

type pairResult struct {
	i, j        int
	leg         domain.TravelLeg
	unreachable bool
	err         error
}

// BuildDistanceMatrix computes the full pairwise travel matrix over the stop
// list. One directions call per unordered pair, stored symmetrically; the
// diagonal stays zero. Cost is O(n^2) external calls, accepted because daily
// stop counts are small.
//
// A pair the provider cannot connect is marked unreachable instead of
// failing the build; any other provider error aborts the whole build.
func BuildDistanceMatrix(ctx context.Context, stops []domain.Stop, provider ports.DirectionsProvider) (*domain.DistanceMatrix, error) {
	matrix := domain.NewDistanceMatrix(stops)
	n := len(stops)
	if n < 2 {
		return matrix, nil
	}

	type pair struct{ i, j int }
	pairs := make([]pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, 5)
	resultsCh := make(chan pairResult, len(pairs))
	var wg sync.WaitGroup

	for _, p := range pairs {
		wg.Add(1)
		go func(i, j int) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			summary, err := provider.Route(ctx, stops[i].Coord, stops[j].Coord)
			if err != nil {
				var noRoute *domain.NoRouteError
				if errors.As(err, &noRoute) {
					resultsCh <- pairResult{i: i, j: j, unreachable: true}
					return
				}
				resultsCh <- pairResult{i: i, j: j, err: fmt.Errorf(
					"build matrix: route %q -> %q: %w", stops[i].Label, stops[j].Label, err)}
				cancel()
				return
			}

			resultsCh <- pairResult{i: i, j: j, leg: domain.TravelLeg{
				DurationSeconds: summary.DurationSeconds,
				DistanceMeters:  summary.DistanceMeters,
			}}
		}(p.i, p.j)
	}

	wg.Wait()
	close(resultsCh)

	var buildErr error
	for res := range resultsCh {
		if res.err != nil {
			if buildErr == nil {
				buildErr = res.err
			}
			continue
		}
		if res.unreachable {
			matrix.SetUnreachable(res.i, res.j)
			continue
		}
		matrix.SetLeg(res.i, res.j, res.leg)
	}
	if buildErr != nil {
		return nil, buildErr
	}

	return matrix, nil
}
