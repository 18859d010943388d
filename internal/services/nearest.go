package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/logger"
)

// NearestQuery describes one nearest-client lookup.
type NearestQuery struct {
	SourceAddress   string
	Window          domain.TimeWindow
	ExcludeDates    []string // calendar dates (2006-01-02) to skip
	SpecificDate    string   // when set, only this date's bookings are kept and ExcludeDates is ignored
	ForceRefresh    bool
	IncludeDayRoute bool // also plan the winner's full day from the depot
}

// RankedBooking is one candidate with its driving metrics from the query
// address.
type RankedBooking struct {
	Booking         domain.Booking
	DistanceMeters  int
	DurationSeconds int

	coord domain.Coordinates
}

// DayStats summarizes the bookings sharing the winner's calendar date.
type DayStats struct {
	Date                 string
	Count                int
	TotalDistanceMeters  int
	TotalDurationSeconds int
}

// NearestResult is the winner plus same-day context.
type NearestResult struct {
	Nearest  RankedBooking
	Ranked   []RankedBooking
	SameDay  DayStats
	DayRoute *domain.Route
}

// FindNearest locates, among all still-valid bookings in the window, the one
// whose customer address is closest by driving distance to the source
// address.
//
// Per-candidate geocoding or directions failures mark the candidate
// unreachable and exclude it from the ranking; they never fail the query.
// The source address failing to geocode, or no booking surviving the
// filters, fails the whole query.
func (p *RoutePlanner) FindNearest(ctx context.Context, q NearestQuery) (*NearestResult, error) {
	srcCoord, err := p.Geocoder.Geocode(ctx, q.SourceAddress)
	if err != nil {
		return nil, err
	}

	valid, err := p.Validator.Validate(ctx, p.Validator.Key(q.Window), q.Window, q.ForceRefresh)
	if err != nil {
		return nil, err
	}

	candidates := filterByDate(valid, q, p.Location)
	if len(candidates) == 0 {
		return nil, &domain.NoValidBookingsError{Window: q.Window}
	}

	ranked, err := p.rankByDistance(ctx, srcCoord, candidates)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		// Every candidate was unreachable from the source.
		return nil, &domain.NoValidBookingsError{Window: q.Window}
	}

	winner := ranked[0]
	winnerDate := winner.Booking.Date(p.Location)

	stats := DayStats{Date: winnerDate}
	sameDay := make([]RankedBooking, 0, len(ranked))
	for _, rb := range ranked {
		if rb.Booking.Date(p.Location) != winnerDate {
			continue
		}
		sameDay = append(sameDay, rb)
		stats.Count++
		stats.TotalDistanceMeters += rb.DistanceMeters
		stats.TotalDurationSeconds += rb.DurationSeconds
	}

	result := &NearestResult{Nearest: winner, Ranked: ranked, SameDay: stats}

	if q.IncludeDayRoute {
		route, err := p.planDayRoute(ctx, sameDay)
		if err != nil {
			return nil, err
		}
		result.DayRoute = route
	}

	return result, nil
}

// filterByDate applies the specificDate/excludeDates rules: specificDate
// takes precedence over the exclusion list.
func filterByDate(bks []domain.Booking, q NearestQuery, loc *time.Location) []domain.Booking {
	if q.SpecificDate != "" {
		out := make([]domain.Booking, 0, len(bks))
		for _, b := range bks {
			if b.Date(loc) == q.SpecificDate {
				out = append(out, b)
			}
		}
		return out
	}

	if len(q.ExcludeDates) == 0 {
		return bks
	}

	excluded := make(map[string]struct{}, len(q.ExcludeDates))
	for _, d := range q.ExcludeDates {
		excluded[d] = struct{}{}
	}

	out := make([]domain.Booking, 0, len(bks))
	for _, b := range bks {
		if _, skip := excluded[b.Date(loc)]; skip {
			continue
		}
		out = append(out, b)
	}
	return out
}

// rankByDistance geocodes every candidate and measures the source->candidate
// driving leg, in parallel, then sorts ascending by distance. Only the leg
// from the source is measured; the full matrix is not needed to pick a
// winner. Sorting is stable so equal distances keep validation order.
func (p *RoutePlanner) rankByDistance(ctx context.Context, src domain.Coordinates, candidates []domain.Booking) ([]RankedBooking, error) {
	resolved := make([]*RankedBooking, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeConcurrency)

	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			coord, err := p.Geocoder.Geocode(gctx, cand.Address)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				p.Log.Info("excluding unreachable candidate",
					logger.String("booking_id", cand.ID), logger.Error(err))
				return nil
			}

			leg, err := p.Directions.Route(gctx, src, coord)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				p.Log.Info("excluding unreachable candidate",
					logger.String("booking_id", cand.ID), logger.Error(err))
				return nil
			}

			resolved[i] = &RankedBooking{
				Booking:         cand,
				DistanceMeters:  leg.DistanceMeters,
				DurationSeconds: leg.DurationSeconds,
				coord:           coord,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]RankedBooking, 0, len(candidates))
	for _, rb := range resolved {
		if rb != nil {
			ranked = append(ranked, *rb)
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].DistanceMeters < ranked[b].DistanceMeters
	})
	return ranked, nil
}

// planDayRoute optimizes the winner's full day starting from the depot, not
// the query address. Candidate coordinates are already known, so only the
// depot needs geocoding.
func (p *RoutePlanner) planDayRoute(ctx context.Context, sameDay []RankedBooking) (*domain.Route, error) {
	depotCoord, err := p.Geocoder.Geocode(ctx, p.DepotAddress)
	if err != nil {
		return nil, err
	}

	stops := make([]domain.Stop, 0, len(sameDay)+1)
	stops = append(stops, domain.Stop{Label: p.DepotAddress, Coord: depotCoord})
	for _, rb := range sameDay {
		startAt := rb.Booking.StartAt
		stops = append(stops, domain.Stop{
			Label:        rb.Booking.Address,
			Coord:        rb.coord,
			CustomerName: rb.Booking.CustomerName,
			ScheduledAt:  &startAt,
		})
	}

	return p.planRoute(ctx, stops)
}
