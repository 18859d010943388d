package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/logger"
	"route-optimizer-service/internal/ports"
)

// RoutePlanner is the operation surface of the optimization core. Every
// route it produces starts at the fixed depot; every booking it touches is
// re-validated against the external system of record first.
type RoutePlanner struct {
	Geocoder     ports.Geocoder
	Directions   ports.DirectionsProvider
	Validator    *BookingValidator
	DepotAddress string
	Location     *time.Location
	Log          logger.Logger
}

func NewRoutePlanner(
	geocoder ports.Geocoder,
	directions ports.DirectionsProvider,
	validator *BookingValidator,
	depotAddress string,
	loc *time.Location,
	log logger.Logger,
) *RoutePlanner {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RoutePlanner{
		Geocoder:     geocoder,
		Directions:   directions,
		Validator:    validator,
		DepotAddress: depotAddress,
		Location:     loc,
		Log:          log,
	}
}

// OptimizeAddresses plans a multi-stop route over ad hoc addresses, starting
// at the depot. Addresses are deduplicated preserving first occurrence; an
// address geocoding cannot place fails the request.
func (p *RoutePlanner) OptimizeAddresses(ctx context.Context, addresses []string, forceRefresh bool) (*domain.Route, error) {
	if forceRefresh {
		// Force refresh is a global freshness demand; drop the validity
		// cache even though this operation reads no bookings itself.
		if err := p.Validator.Cache.InvalidateAll(ctx); err != nil {
			p.Log.Warn("cache invalidate failed", logger.Error(err))
		}
	}

	seen := make(map[string]struct{}, len(addresses))
	labels := make([]string, 0, len(addresses)+1)
	labels = append(labels, p.DepotAddress)
	for _, a := range addresses {
		a = strings.Join(strings.Fields(a), " ")
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		labels = append(labels, a)
	}

	if len(labels) < 2 {
		return nil, errors.New("optimize addresses: at least one address is required")
	}

	stops, err := GeocodeStops(ctx, p.Geocoder, labels)
	if err != nil {
		return nil, err
	}

	return p.planRoute(ctx, stops)
}

// OptimizeBookingsForDate plans the visit order for one day's validated
// bookings. Waypoints carry the customer name and scheduled time. Bookings
// whose address cannot be geocoded are dropped; a day with nothing routable
// is a not-found condition.
func (p *RoutePlanner) OptimizeBookingsForDate(ctx context.Context, date string, forceRefresh bool) (*domain.Route, error) {
	window, err := domain.DayWindow(date, p.Location)
	if err != nil {
		return nil, fmt.Errorf("optimize bookings: invalid date %q: %w", date, err)
	}

	valid, err := p.Validator.Validate(ctx, "date:"+date, window, forceRefresh)
	if err != nil {
		return nil, err
	}
	if len(valid) == 0 {
		return nil, &domain.NoValidBookingsError{Window: window}
	}

	stops, err := GeocodeBookingStops(ctx, p.Geocoder, valid, p.Log)
	if err != nil {
		return nil, err
	}
	if len(stops) == 0 {
		return nil, &domain.NoValidBookingsError{Window: window}
	}

	depotCoord, err := p.Geocoder.Geocode(ctx, p.DepotAddress)
	if err != nil {
		return nil, fmt.Errorf("geocode depot: %w", err)
	}

	all := make([]domain.Stop, 0, len(stops)+1)
	all = append(all, domain.Stop{Label: p.DepotAddress, Coord: depotCoord})
	all = append(all, stops...)

	return p.planRoute(ctx, all)
}

// planRoute runs matrix build, greedy ordering, and final assembly.
func (p *RoutePlanner) planRoute(ctx context.Context, stops []domain.Stop) (*domain.Route, error) {
	matrix, err := BuildDistanceMatrix(ctx, stops, p.Directions)
	if err != nil {
		return nil, err
	}

	order := NearestNeighborOrder(matrix)

	return AssembleRoute(ctx, stops, order, p.Directions)
}

// BookingProbe is the result of a single-booking freshness check.
type BookingProbe struct {
	Exists     bool
	Status     domain.BookingStatus
	StartAt    *time.Time
	CustomerID string
}

// CheckBooking re-reads one booking straight from the system of record,
// bypassing the validity cache entirely. A booking that no longer exists is
// a normal Exists=false answer, not an error.
func (p *RoutePlanner) CheckBooking(ctx context.Context, id string) (BookingProbe, error) {
	b, err := p.Validator.Source.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrBookingNotFound) {
			return BookingProbe{Exists: false}, nil
		}
		return BookingProbe{}, asSourceError("check booking "+id, err)
	}

	probe := BookingProbe{
		Exists:     true,
		Status:     b.Status,
		CustomerID: b.CustomerID,
	}
	if !b.StartAt.IsZero() {
		startAt := b.StartAt
		probe.StartAt = &startAt
	}
	return probe, nil
}

// InvalidateCache drops every validity cache entry.
func (p *RoutePlanner) InvalidateCache(ctx context.Context) error {
	return p.Validator.Cache.InvalidateAll(ctx)
}
