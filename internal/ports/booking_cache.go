package ports

import (
	"context"
	"time"

	"route-optimizer-service/internal/domain"
)

// Port: the short-lived validity cache for validated booking sets. Entries
// are whole-value replacements; a stale entry is never returned.
type BookingCache interface {
	// Get returns the cached set for key and whether the entry was fresh.
	Get(ctx context.Context, key string) ([]domain.Booking, bool, error)

	// Set stores a validated set under key for ttl.
	Set(ctx context.Context, key string, bookings []domain.Booking, ttl time.Duration) error

	// InvalidateAll drops every entry regardless of age.
	InvalidateAll(ctx context.Context) error
}
