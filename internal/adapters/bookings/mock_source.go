package bookings

import (
	"context"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

// MockSource is a scripted BookingSource for tests. List serves a fixed
// candidate slice; Get and GetCustomer read from maps so individual records
// can be made to disappear between the list and the re-read.
type MockSource struct {
	Candidates []domain.Booking
	ListErr    error

	Bookings  map[string]domain.Booking
	GetErrs   map[string]error
	Customers map[string]domain.Customer

	ListCalls int
	GetCalls  int
}

func (m *MockSource) ListBookings(ctx context.Context, locationID string, window domain.TimeWindow) ([]domain.Booking, error) {
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]domain.Booking, len(m.Candidates))
	copy(out, m.Candidates)
	return out, nil
}

func (m *MockSource) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	m.GetCalls++
	if err, ok := m.GetErrs[id]; ok {
		return domain.Booking{}, err
	}
	b, ok := m.Bookings[id]
	if !ok {
		return domain.Booking{}, ports.ErrBookingNotFound
	}
	return b, nil
}

func (m *MockSource) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	c, ok := m.Customers[customerID]
	if !ok {
		return domain.Customer{}, ports.ErrCustomerNotFound
	}
	return c, nil
}
