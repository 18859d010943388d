package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-optimizer-service/internal/adapters/bookings"
	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

func testWindow() domain.TimeWindow {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return domain.TimeWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

func acceptedBooking(id, customerID string, startAt time.Time) domain.Booking {
	return domain.Booking{
		ID:         id,
		CustomerID: customerID,
		StartAt:    startAt,
		Status:     domain.StatusAccepted,
	}
}

func newTestValidator(source ports.BookingSource) *BookingValidator {
	return NewBookingValidator(source, cache.NewMemoryBookingCache(), "loc-1", 10*time.Second, nil)
}

func TestValidate(t *testing.T) {
	window := testWindow()
	at := window.Start.Add(9 * time.Hour)

	t.Run("re-reads each candidate and resolves customers", func(t *testing.T) {
		b1 := acceptedBooking("b1", "c1", at)
		b2 := acceptedBooking("b2", "c2", at.Add(time.Hour))
		source := &bookings.MockSource{
			Candidates: []domain.Booking{b1, b2},
			Bookings:   map[string]domain.Booking{"b1": b1, "b2": b2},
			Customers: map[string]domain.Customer{
				"c1": {ID: "c1", GivenName: "Ada", FamilyName: "Knox", Address: "1 Elm St"},
				"c2": {ID: "c2", GivenName: "Ben", Address: "2 Oak Ave"},
			},
		}
		v := newTestValidator(source)

		valid, err := v.Validate(context.Background(), v.Key(window), window, false)
		require.NoError(t, err)
		require.Len(t, valid, 2)

		assert.Equal(t, "1 Elm St", valid[0].Address)
		assert.Equal(t, "Ada Knox", valid[0].CustomerName)
		assert.Equal(t, "Ben", valid[1].CustomerName)
		assert.Equal(t, 2, source.GetCalls)
	})

	t.Run("booking failing its re-read is dropped, the rest survive", func(t *testing.T) {
		b1 := acceptedBooking("b1", "c1", at)
		b2 := acceptedBooking("b2", "c1", at.Add(time.Hour))
		b3 := acceptedBooking("b3", "c1", at.Add(2*time.Hour))
		source := &bookings.MockSource{
			Candidates: []domain.Booking{b1, b2, b3},
			Bookings:   map[string]domain.Booking{"b1": b1, "b3": b3},
			GetErrs:    map[string]error{"b2": errors.New("500 from source")},
			Customers: map[string]domain.Customer{
				"c1": {ID: "c1", GivenName: "Ada", Address: "1 Elm St"},
			},
		}
		v := newTestValidator(source)

		valid, err := v.Validate(context.Background(), v.Key(window), window, false)
		require.NoError(t, err)
		require.Len(t, valid, 2)
		assert.Equal(t, "b1", valid[0].ID)
		assert.Equal(t, "b3", valid[1].ID)
	})

	t.Run("filters by status, customer reference, window, and address", func(t *testing.T) {
		ok := acceptedBooking("ok", "c1", at)
		declined := acceptedBooking("declined", "c1", at)
		declined.Status = domain.StatusOther
		noCustomer := acceptedBooking("no-customer", "", at)
		outside := acceptedBooking("outside", "c1", window.End.Add(time.Hour))
		blankAddr := acceptedBooking("blank-addr", "c2", at)

		all := []domain.Booking{ok, declined, noCustomer, outside, blankAddr}
		byID := make(map[string]domain.Booking, len(all))
		for _, b := range all {
			byID[b.ID] = b
		}
		source := &bookings.MockSource{
			Candidates: all,
			Bookings:   byID,
			Customers: map[string]domain.Customer{
				"c1": {ID: "c1", GivenName: "Ada", Address: "1 Elm St"},
				"c2": {ID: "c2", GivenName: "Ben", Address: "   "},
			},
		}
		v := newTestValidator(source)

		valid, err := v.Validate(context.Background(), v.Key(window), window, false)
		require.NoError(t, err)
		require.Len(t, valid, 1)
		assert.Equal(t, "ok", valid[0].ID)
	})

	t.Run("fresh cache entry short-circuits the source", func(t *testing.T) {
		b1 := acceptedBooking("b1", "c1", at)
		source := &bookings.MockSource{
			Candidates: []domain.Booking{b1},
			Bookings:   map[string]domain.Booking{"b1": b1},
			Customers: map[string]domain.Customer{
				"c1": {ID: "c1", GivenName: "Ada", Address: "1 Elm St"},
			},
		}
		v := newTestValidator(source)
		key := v.Key(window)

		_, err := v.Validate(context.Background(), key, window, false)
		require.NoError(t, err)
		require.Equal(t, 1, source.ListCalls)

		again, err := v.Validate(context.Background(), key, window, false)
		require.NoError(t, err)
		assert.Len(t, again, 1)
		assert.Equal(t, 1, source.ListCalls, "second call must come from cache")
	})

	t.Run("force refresh drops the cache and revalidates", func(t *testing.T) {
		b1 := acceptedBooking("b1", "c1", at)
		source := &bookings.MockSource{
			Candidates: []domain.Booking{b1},
			Bookings:   map[string]domain.Booking{"b1": b1},
			Customers: map[string]domain.Customer{
				"c1": {ID: "c1", GivenName: "Ada", Address: "1 Elm St"},
			},
		}
		v := newTestValidator(source)
		key := v.Key(window)

		_, err := v.Validate(context.Background(), key, window, false)
		require.NoError(t, err)

		// The booking is cancelled upstream between the two calls.
		delete(source.Bookings, "b1")

		valid, err := v.Validate(context.Background(), key, window, true)
		require.NoError(t, err)
		assert.Empty(t, valid)
		assert.Equal(t, 2, source.ListCalls)
	})

	t.Run("list failure aborts and caches nothing", func(t *testing.T) {
		source := &bookings.MockSource{ListErr: errors.New("connection refused")}
		c := cache.NewMemoryBookingCache()
		v := NewBookingValidator(source, c, "loc-1", 10*time.Second, nil)
		key := v.Key(window)

		_, err := v.Validate(context.Background(), key, window, false)
		require.Error(t, err)

		var srcErr *domain.BookingSourceError
		require.ErrorAs(t, err, &srcErr)
		assert.Equal(t, domain.ReasonBookingSource, srcErr.Reason())

		_, ok, cacheErr := c.Get(context.Background(), key)
		require.NoError(t, cacheErr)
		assert.False(t, ok, "a failed validation must not be cached")
	})

	t.Run("taxonomy errors from the source pass through unwrapped", func(t *testing.T) {
		source := &bookings.MockSource{
			ListErr: &domain.RateLimitError{Service: "bookings", Attempts: 4},
		}
		v := newTestValidator(source)

		_, err := v.Validate(context.Background(), v.Key(window), window, false)
		var rl *domain.RateLimitError
		require.ErrorAs(t, err, &rl)
		assert.Equal(t, 4, rl.Attempts)
	})
}

func TestValidatorKey(t *testing.T) {
	v := newTestValidator(&bookings.MockSource{})
	w := testWindow()

	assert.Equal(t, v.Key(w), v.Key(w))

	other := domain.TimeWindow{Start: w.Start.Add(time.Hour), End: w.End}
	assert.NotEqual(t, v.Key(w), v.Key(other))
}
