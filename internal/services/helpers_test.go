package services

import (
	"testing"
	"time"

	"route-optimizer-service/internal/adapters/bookings"
	"route-optimizer-service/internal/adapters/geo"
	"route-optimizer-service/internal/domain"
)

// Shared fixture geography: the depot, a few ad hoc stops, two customer
// addresses, and a query source address, with driving legs between the
// combinations the tests exercise.

func fixtureCoords() map[string]domain.Coordinates {
	coords := map[string]domain.Coordinates{
		"1 Elm St":  {Lon: 13.44, Lat: 52.56},
		"2 Oak Ave": {Lon: 13.45, Lat: 52.57},
		"src":       {Lon: 13.46, Lat: 52.58},
	}
	for name, c := range testCoords {
		coords[name] = c
	}
	return coords
}

func fixtureLegs() []geo.MockLeg {
	return []geo.MockLeg{
		{From: "depot", To: "a", Meters: 1000, Seconds: 120},
		{From: "depot", To: "b", Meters: 2000, Seconds: 240},
		{From: "a", To: "b", Meters: 500, Seconds: 60},
		{From: "depot", To: "1 Elm St", Meters: 1500, Seconds: 180},
		{From: "depot", To: "2 Oak Ave", Meters: 3000, Seconds: 360},
		{From: "1 Elm St", To: "2 Oak Ave", Meters: 800, Seconds: 90},
		{From: "src", To: "1 Elm St", Meters: 1100, Seconds: 150},
		{From: "src", To: "2 Oak Ave", Meters: 4200, Seconds: 420},
	}
}

func newTestGeocoder() *geo.MockGeocoder {
	return geo.NewMockGeocoder(fixtureCoords())
}

func newTestDirections() *geo.MockDirections {
	return geo.NewMockDirections(fixtureCoords(), fixtureLegs())
}

// stockedSource serves two live bookings on 2026-03-02 whose customers
// resolve to the Elm and Oak fixture addresses.
func stockedSource(t *testing.T) *bookings.MockSource {
	t.Helper()

	b1 := acceptedBooking("b1", "c1", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	b2 := acceptedBooking("b2", "c2", time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	return &bookings.MockSource{
		Candidates: []domain.Booking{b1, b2},
		Bookings:   map[string]domain.Booking{"b1": b1, "b2": b2},
		Customers: map[string]domain.Customer{
			"c1": {ID: "c1", GivenName: "Ada", FamilyName: "Knox", Address: "1 Elm St"},
			"c2": {ID: "c2", GivenName: "Ben", FamilyName: "Ruiz", Address: "2 Oak Ave"},
		},
	}
}
