package ports

import (
	"context"

	"route-optimizer-service/internal/domain"
)

// Travel distance and duration for one driving leg or a whole connected route.
type RouteSummary struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving driving routes between coordinates.
type DirectionsProvider interface {
	// Route returns the driving leg between two points. A provider with no
	// connection between them returns a *domain.NoRouteError.
	Route(ctx context.Context, from, to domain.Coordinates) (RouteSummary, error)

	// RouteThrough returns one connected route visiting every waypoint in
	// order. Zero routes from the provider is a *domain.NoRouteError.
	RouteThrough(ctx context.Context, waypoints []domain.Coordinates) (RouteSummary, error)
}
