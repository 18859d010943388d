package ports

import (
	"context"

	"route-optimizer-service/internal/domain"
)

// Contract for resolving a free-text address to coordinates.
type Geocoder interface {
	// Geocode returns the best candidate for the address, or a
	// *domain.AddressNotFoundError when the provider has none.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
