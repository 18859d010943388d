package domain

import (
	"strings"
	"time"
)

// BookingStatus collapses the source system's status vocabulary into the two
// values routing cares about: confirmed appointments and everything else.
type BookingStatus string

const (
	StatusAccepted BookingStatus = "ACCEPTED"
	StatusOther    BookingStatus = "OTHER"
)

// ParseBookingStatus maps a raw status string from the booking source.
func ParseBookingStatus(raw string) BookingStatus {
	if strings.EqualFold(strings.TrimSpace(raw), string(StatusAccepted)) {
		return StatusAccepted
	}
	return StatusOther
}

// Booking is a read-only view of an appointment owned by the external booking
// system. The service never mutates bookings, only reads and filters them.
// Address and CustomerName are resolved via the customer lookup, not the
// booking record itself.
type Booking struct {
	ID           string
	CustomerID   string
	CustomerName string
	Address      string
	StartAt      time.Time
	Status       BookingStatus
}

// Valid reports whether the booking passes the validity predicate: accepted
// status, a customer reference, a start time inside the window, and a
// resolvable street address.
func (b Booking) Valid(window TimeWindow) bool {
	if b.Status != StatusAccepted {
		return false
	}
	if strings.TrimSpace(b.CustomerID) == "" {
		return false
	}
	if b.StartAt.IsZero() || !window.Contains(b.StartAt) {
		return false
	}
	return strings.TrimSpace(b.Address) != ""
}

// Date returns the booking's calendar date in the given location.
func (b Booking) Date(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return b.StartAt.In(loc).Format(time.DateOnly)
}

// Customer is the slice of the source system's customer record the routing
// core needs: a display name and a street address.
type Customer struct {
	ID         string
	GivenName  string
	FamilyName string
	Address    string
}

// DisplayName joins the name parts, tolerating either being empty.
func (c Customer) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(c.GivenName) + " " + strings.TrimSpace(c.FamilyName))
}

// TimeWindow is a half-open time range [Start, End).
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayWindow returns the window covering one calendar day in loc.
func DayWindow(date string, loc *time.Location) (TimeWindow, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation(time.DateOnly, date, loc)
	if err != nil {
		return TimeWindow{}, err
	}
	return TimeWindow{Start: start, End: start.AddDate(0, 0, 1)}, nil
}
