package geo

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

// MockGeocoder resolves addresses from a fixed table. Unknown addresses
// produce a *domain.AddressNotFoundError, like the real provider. Callers
// fan out concurrently, so the call counter is mutex-guarded; read it only
// after the calling goroutines have been joined.
type MockGeocoder struct {
	Coords map[string]domain.Coordinates

	mu    sync.Mutex
	Calls int
}

func NewMockGeocoder(coords map[string]domain.Coordinates) *MockGeocoder {
	return &MockGeocoder{Coords: coords}
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	g.mu.Lock()
	g.Calls++
	g.mu.Unlock()

	c, ok := g.Coords[strings.Join(strings.Fields(address), " ")]
	if !ok {
		return domain.Coordinates{}, &domain.AddressNotFoundError{Address: address}
	}
	return c, nil
}

type MockLeg struct {
	From, To string
	Meters   int
	Seconds  int
}

// MockDirections serves pairwise legs from a fixed table keyed by stop label
// coordinates, and synthesizes multi-waypoint routes by chaining legs.
// A missing pair behaves as "no route".
type MockDirections struct {
	legs  map[string]ports.RouteSummary
	names map[domain.Coordinates]string

	// MultiRouteErr, when set, is returned from RouteThrough.
	MultiRouteErr error

	mu    sync.Mutex
	Calls int
}

func NewMockDirections(coords map[string]domain.Coordinates, legs []MockLeg) *MockDirections {
	m := &MockDirections{
		legs:  make(map[string]ports.RouteSummary, len(legs)*2),
		names: make(map[domain.Coordinates]string, len(coords)),
	}
	for name, c := range coords {
		m.names[c] = name
	}
	for _, l := range legs {
		summary := ports.RouteSummary{DistanceMeters: l.Meters, DurationSeconds: l.Seconds}
		m.legs[l.From+"|"+l.To] = summary
		m.legs[l.To+"|"+l.From] = summary
	}
	return m
}

func (m *MockDirections) Route(ctx context.Context, from, to domain.Coordinates) (ports.RouteSummary, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	key := fmt.Sprintf("%s|%s", m.names[from], m.names[to])
	leg, ok := m.legs[key]
	if !ok {
		return ports.RouteSummary{}, &domain.NoRouteError{Waypoints: 2}
	}
	return leg, nil
}

func (m *MockDirections) RouteThrough(ctx context.Context, waypoints []domain.Coordinates) (ports.RouteSummary, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.MultiRouteErr != nil {
		return ports.RouteSummary{}, m.MultiRouteErr
	}

	var total ports.RouteSummary
	for i := 0; i+1 < len(waypoints); i++ {
		key := fmt.Sprintf("%s|%s", m.names[waypoints[i]], m.names[waypoints[i+1]])
		leg, ok := m.legs[key]
		if !ok {
			return ports.RouteSummary{}, &domain.NoRouteError{Waypoints: len(waypoints)}
		}
		total.DistanceMeters += leg.DistanceMeters
		total.DurationSeconds += leg.DurationSeconds
	}
	return total, nil
}
