package bookings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL, "test-token")
	require.NoError(t, err)
	return c
}

func TestListBookings(t *testing.T) {
	window := domain.TimeWindow{
		Start: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	}

	t.Run("parses bookings and sends auth and window params", func(t *testing.T) {
		var gotAuth, gotLoc, gotMin string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotLoc = r.URL.Query().Get("location_id")
			gotMin = r.URL.Query().Get("start_at_min")
			w.Write([]byte(`{"bookings":[
				{"id":"b1","customer_id":"c1","start_at":"2026-03-02T09:00:00Z","status":"ACCEPTED"},
				{"id":"b2","customer_id":"c2","start_at":"2026-03-02T10:00:00Z","status":"CANCELLED_BY_CUSTOMER"}
			]}`))
		})

		got, err := c.ListBookings(context.Background(), "loc-1", window)
		require.NoError(t, err)

		assert.Equal(t, "Bearer test-token", gotAuth)
		assert.Equal(t, "loc-1", gotLoc)
		assert.Equal(t, "2026-03-02T00:00:00Z", gotMin)

		require.Len(t, got, 2)
		assert.Equal(t, domain.StatusAccepted, got[0].Status)
		assert.Equal(t, domain.StatusOther, got[1].Status)
		assert.True(t, got[0].StartAt.Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)))
	})

	t.Run("malformed record is skipped, not fatal", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"bookings":[
				{"id":"bad","customer_id":"c1","start_at":"next tuesday","status":"ACCEPTED"},
				{"id":"ok","customer_id":"c2","start_at":"2026-03-02T10:00:00Z","status":"ACCEPTED"}
			]}`))
		})

		got, err := c.ListBookings(context.Background(), "loc-1", window)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "ok", got[0].ID)
	})

	t.Run("429 on every attempt is rate limited, not a source error", func(t *testing.T) {
		calls := 0
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := c.ListBookings(context.Background(), "loc-1", window)
		var rl *domain.RateLimitError
		require.ErrorAs(t, err, &rl)
		assert.Equal(t, "bookings", rl.Service)
		assert.Equal(t, 4, rl.Attempts)
		assert.Equal(t, 4, calls)

		var srcErr *domain.BookingSourceError
		assert.False(t, errors.As(err, &srcErr), "rate limiting must keep its own reason code")
	})

	t.Run("5xx is retried until the upstream recovers", func(t *testing.T) {
		calls := 0
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"bookings":[]}`))
		})

		got, err := c.ListBookings(context.Background(), "loc-1", window)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("other 4xx fails fast as a source error", func(t *testing.T) {
		calls := 0
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusForbidden)
		})

		_, err := c.ListBookings(context.Background(), "loc-1", window)
		var srcErr *domain.BookingSourceError
		require.ErrorAs(t, err, &srcErr)
		assert.Equal(t, 1, calls)
	})
}

func TestGetBooking(t *testing.T) {
	t.Run("parses a booking", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/bookings/b1", r.URL.Path)
			w.Write([]byte(`{"booking":{"id":"b1","customer_id":"c1","start_at":"2026-03-02T09:00:00Z","status":"accepted"}}`))
		})

		got, err := c.GetBooking(context.Background(), "b1")
		require.NoError(t, err)
		assert.Equal(t, "b1", got.ID)
		assert.Equal(t, domain.StatusAccepted, got.Status)
	})

	t.Run("404 maps to the not-found sentinel", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := c.GetBooking(context.Background(), "gone")
		assert.ErrorIs(t, err, ports.ErrBookingNotFound)
	})
}

func TestGetCustomer(t *testing.T) {
	t.Run("joins the address parts", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/customers/c1", r.URL.Path)
			w.Write([]byte(`{"customer":{"id":"c1","given_name":"Ada","family_name":"Knox",
				"address":{"address_line_1":"1 Elm St","locality":"Seattle","postal_code":"98109"}}}`))
		})

		got, err := c.GetCustomer(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, "1 Elm St, Seattle, 98109", got.Address)
		assert.Equal(t, "Ada Knox", got.DisplayName())
	})

	t.Run("missing address stays empty", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"customer":{"id":"c1","given_name":"Ada"}}`))
		})

		got, err := c.GetCustomer(context.Background(), "c1")
		require.NoError(t, err)
		assert.Empty(t, got.Address)
	})

	t.Run("404 maps to the not-found sentinel", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := c.GetCustomer(context.Background(), "gone")
		assert.ErrorIs(t, err, ports.ErrCustomerNotFound)
	})
}
