package ports

import (
	"context"
	"errors"

	"route-optimizer-service/internal/domain"
)

// Returned by BookingSource lookups when the record does not exist (anymore).
var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// Port: the external system of record for appointments. The core only reads.
type BookingSource interface {
	// ListBookings returns candidate bookings for a location and window. The
	// list endpoint may serve stale entries; GetBooking is the authoritative
	// per-booking check.
	ListBookings(ctx context.Context, locationID string, window domain.TimeWindow) ([]domain.Booking, error)

	// GetBooking re-fetches a single booking by id.
	GetBooking(ctx context.Context, id string) (domain.Booking, error)

	// GetCustomer resolves the customer a booking belongs to.
	GetCustomer(ctx context.Context, customerID string) (domain.Customer, error)
}
