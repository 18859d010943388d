package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-optimizer-service/internal/adapters/bookings"
	"route-optimizer-service/internal/domain"
)

func TestFindNearest(t *testing.T) {
	window := testWindow()

	t.Run("picks the closest customer by driving distance", func(t *testing.T) {
		// Oak is 4.2 km from the source, Elm 1.1 km. Elm wins even though
		// Oak's booking starts later in the day.
		p := newTestPlanner(stockedSource(t), newTestGeocoder(), newTestDirections())

		res, err := p.FindNearest(context.Background(), NearestQuery{
			SourceAddress: "src",
			Window:        window,
		})
		require.NoError(t, err)

		assert.Equal(t, "b1", res.Nearest.Booking.ID)
		assert.Equal(t, 1100, res.Nearest.DistanceMeters)
		assert.Equal(t, 150, res.Nearest.DurationSeconds)
		require.Len(t, res.Ranked, 2)
		assert.Equal(t, "b2", res.Ranked[1].Booking.ID)
	})

	t.Run("same-day stats cover every booking sharing the winner's date", func(t *testing.T) {
		p := newTestPlanner(stockedSource(t), newTestGeocoder(), newTestDirections())

		res, err := p.FindNearest(context.Background(), NearestQuery{
			SourceAddress: "src",
			Window:        window,
		})
		require.NoError(t, err)

		assert.Equal(t, "2026-03-02", res.SameDay.Date)
		assert.Equal(t, 2, res.SameDay.Count)
		assert.Equal(t, 1100+4200, res.SameDay.TotalDistanceMeters)
		assert.Equal(t, 150+420, res.SameDay.TotalDurationSeconds)
	})

	t.Run("specific date keeps only that day", func(t *testing.T) {
		source := stockedSource(t)
		// Move Oak's booking to the next day.
		b2 := source.Bookings["b2"]
		b2.StartAt = time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
		source.Bookings["b2"] = b2

		p := newTestPlanner(source, newTestGeocoder(), newTestDirections())
		wide := domain.TimeWindow{Start: window.Start, End: window.Start.AddDate(0, 0, 2)}

		res, err := p.FindNearest(context.Background(), NearestQuery{
			SourceAddress: "src",
			Window:        wide,
			SpecificDate:  "2026-03-03",
			ExcludeDates:  []string{"2026-03-03"}, // ignored when SpecificDate is set
		})
		require.NoError(t, err)

		assert.Equal(t, "b2", res.Nearest.Booking.ID)
		require.Len(t, res.Ranked, 1)
	})

	t.Run("excluded dates are skipped", func(t *testing.T) {
		source := stockedSource(t)
		b2 := source.Bookings["b2"]
		b2.StartAt = time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
		source.Bookings["b2"] = b2

		p := newTestPlanner(source, newTestGeocoder(), newTestDirections())
		wide := domain.TimeWindow{Start: window.Start, End: window.Start.AddDate(0, 0, 2)}

		res, err := p.FindNearest(context.Background(), NearestQuery{
			SourceAddress: "src",
			Window:        wide,
			ExcludeDates:  []string{"2026-03-02"},
		})
		require.NoError(t, err)

		assert.Equal(t, "b2", res.Nearest.Booking.ID)
		assert.Equal(t, "2026-03-03", res.SameDay.Date)
	})

	t.Run("unreachable candidate is excluded, not fatal", func(t *testing.T) {
		source := stockedSource(t)
		// Re-home Oak's customer somewhere the geocoder has never heard of.
		source.Customers["c2"] = domain.Customer{ID: "c2", GivenName: "Ben", Address: "9 Ghost Rd"}

		p := newTestPlanner(source, newTestGeocoder(), newTestDirections())

		res, err := p.FindNearest(context.Background(), NearestQuery{
			SourceAddress: "src",
			Window:        window,
		})
		require.NoError(t, err)

		assert.Equal(t, "b1", res.Nearest.Booking.ID)
		require.Len(t, res.Ranked, 1)
		assert.Equal(t, 1, res.SameDay.Count)
	})

	t.Run("unknown source address is fatal", func(t *testing.T) {
		p := newTestPlanner(stockedSource(t), newTestGeocoder(), newTestDirections())

		_, err := p.FindNearest(context.Background(), NearestQuery{
			SourceAddress: "nowhere",
			Window:        window,
		})
		var notFound *domain.AddressNotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("no surviving candidate is a no-valid-bookings condition", func(t *testing.T) {
		p := newTestPlanner(&bookings.MockSource{}, newTestGeocoder(), newTestDirections())

		_, err := p.FindNearest(context.Background(), NearestQuery{
			SourceAddress: "src",
			Window:        window,
		})
		var empty *domain.NoValidBookingsError
		require.ErrorAs(t, err, &empty)
	})

	t.Run("day route starts at the depot and covers the winner's day", func(t *testing.T) {
		p := newTestPlanner(stockedSource(t), newTestGeocoder(), newTestDirections())

		res, err := p.FindNearest(context.Background(), NearestQuery{
			SourceAddress:   "src",
			Window:          window,
			IncludeDayRoute: true,
		})
		require.NoError(t, err)

		require.NotNil(t, res.DayRoute)
		require.Len(t, res.DayRoute.Stops, 3)
		assert.Equal(t, testDepot, res.DayRoute.Stops[0].Label)
		// Greedy from the depot: Elm (180s) before Oak.
		assert.Equal(t, "1 Elm St", res.DayRoute.Stops[1].Label)
		assert.Equal(t, "2 Oak Ave", res.DayRoute.Stops[2].Label)
		assert.Equal(t, 1500+800, res.DayRoute.TotalDistanceMeters)
	})
}
