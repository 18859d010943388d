package domain

import "fmt"

// Reason codes surfaced alongside error messages so callers can branch on
// failure category without parsing text.
const (
	ReasonAddressNotFound = "address_not_found"
	ReasonNoRoute         = "no_route"
	ReasonRateLimited     = "rate_limited"
	ReasonNoValidBookings = "no_valid_bookings"
	ReasonBookingSource   = "booking_source_error"
)

// AddressNotFoundError: geocoding produced no candidate for an address.
// Not retried; surfaced to the caller.
type AddressNotFoundError struct {
	Address string
}

func (e *AddressNotFoundError) Error() string {
	return fmt.Sprintf("address not found: %q", e.Address)
}

func (e *AddressNotFoundError) Reason() string { return ReasonAddressNotFound }

// NoRouteError: the directions provider returned no route for a required pair
// or waypoint sequence. Fatal to the enclosing operation.
type NoRouteError struct {
	Waypoints int
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no route found for %d waypoints", e.Waypoints)
}

func (e *NoRouteError) Reason() string { return ReasonNoRoute }

// RateLimitError: an upstream kept answering too-many-requests after the
// bounded retry loop was exhausted.
type RateLimitError struct {
	Service  string
	Attempts int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited after %d attempts", e.Service, e.Attempts)
}

func (e *RateLimitError) Reason() string { return ReasonRateLimited }

// NoValidBookingsError: validation produced an empty set for the requested
// window. A not-found condition, not a server fault.
type NoValidBookingsError struct {
	Window TimeWindow
}

func (e *NoValidBookingsError) Error() string {
	return fmt.Sprintf(
		"no valid bookings between %s and %s",
		e.Window.Start.Format("2006-01-02 15:04"),
		e.Window.End.Format("2006-01-02 15:04"),
	)
}

func (e *NoValidBookingsError) Reason() string { return ReasonNoValidBookings }

// BookingSourceError: any other failure from the booking system of record.
type BookingSourceError struct {
	Op  string
	Err error
}

func (e *BookingSourceError) Error() string {
	return fmt.Sprintf("booking source: %s: %v", e.Op, e.Err)
}

func (e *BookingSourceError) Unwrap() error { return e.Err }

func (e *BookingSourceError) Reason() string { return ReasonBookingSource }

// Reasoner is implemented by every error in the taxonomy above.
type Reasoner interface {
	error
	Reason() string
}
