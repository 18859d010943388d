package cache

import (
	"context"
	"sync"
	"time"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
)

type memoryEntry struct {
	bookings  []domain.Booking
	writtenAt time.Time
	ttl       time.Duration
}

func (e memoryEntry) fresh(now time.Time) bool {
	return now.Sub(e.writtenAt) < e.ttl
}

// MemoryBookingCache is the in-process validity cache. Entries are whole-value
// replacements; freshness is checked on every read and again by the periodic
// sweep, so a stale entry is never served even if the sweeper falls behind.
//
// The clock is injectable so tests can assert TTL behavior deterministically.
type MemoryBookingCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryBookingCache() *MemoryBookingCache {
	return &MemoryBookingCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// NewMemoryBookingCacheWithClock constructs a cache reading time from clock.
func NewMemoryBookingCacheWithClock(clock func() time.Time) *MemoryBookingCache {
	c := NewMemoryBookingCache()
	c.now = clock
	return c
}

// Get returns the cached set for key if the entry is still fresh. A stale
// entry is deleted on sight.
func (c *MemoryBookingCache) Get(ctx context.Context, key string) ([]domain.Booking, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		obs.CacheMiss("bookings")
		return nil, false, nil
	}
	if !entry.fresh(c.now()) {
		delete(c.entries, key)
		obs.CacheMiss("bookings")
		return nil, false, nil
	}

	obs.CacheHit("bookings")
	out := make([]domain.Booking, len(entry.bookings))
	copy(out, entry.bookings)
	return out, true, nil
}

// Set stores a validated set under key. The slice is copied so later mutation
// by the caller cannot corrupt the cached value.
func (c *MemoryBookingCache) Set(ctx context.Context, key string, bookings []domain.Booking, ttl time.Duration) error {
	stored := make([]domain.Booking, len(bookings))
	copy(stored, bookings)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{bookings: stored, writtenAt: c.now(), ttl: ttl}
	return nil
}

// InvalidateAll drops every entry regardless of age.
func (c *MemoryBookingCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}

// Sweep removes every stale entry and reports how many were dropped.
func (c *MemoryBookingCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	dropped := 0
	for key, entry := range c.entries {
		if !entry.fresh(now) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Run sweeps on the given interval until ctx is canceled. Optional: the cache
// is correct without it, the sweep only bounds memory growth.
func (c *MemoryBookingCache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
