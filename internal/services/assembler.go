package services

import (
	"context"
	"errors"
	"fmt"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

// AssembleRoute re-maps stops into the optimizer's order and issues a single
// multi-waypoint directions request whose aggregate duration and distance
// are authoritative for display.
//
// The pairwise matrix and the connected route are computed independently and
// may diverge (turn restrictions, one-way streets), so no partial route is
// ever synthesized from matrix legs: a provider that cannot connect the
// sequence fails the whole operation.
func AssembleRoute(ctx context.Context, stops []domain.Stop, order []int, provider ports.DirectionsProvider) (*domain.Route, error) {
	if len(order) != len(stops) {
		return nil, fmt.Errorf("assemble route: order length %d != stop count %d", len(order), len(stops))
	}
	if len(order) > 0 && order[0] != 0 {
		return nil, errors.New("assemble route: order must start at the depot")
	}

	ordered := make([]domain.Stop, 0, len(stops))
	for _, idx := range order {
		if idx < 0 || idx >= len(stops) {
			return nil, fmt.Errorf("assemble route: order index %d out of range", idx)
		}
		ordered = append(ordered, stops[idx])
	}

	route := &domain.Route{Order: order, Stops: ordered}
	if len(ordered) < 2 {
		return route, nil
	}

	waypoints := make([]domain.Coordinates, 0, len(ordered))
	for _, s := range ordered {
		waypoints = append(waypoints, s.Coord)
	}

	summary, err := provider.RouteThrough(ctx, waypoints)
	if err != nil {
		return nil, err
	}

	route.TotalDurationSeconds = summary.DurationSeconds
	route.TotalDistanceMeters = summary.DistanceMeters
	return route, nil
}
