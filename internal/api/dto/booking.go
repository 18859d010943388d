package dto

import (
	"time"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/services"
)

type NearestRequest struct {
	Address         string     `json:"address"`
	StartAt         *time.Time `json:"start_at"`
	EndAt           *time.Time `json:"end_at"`
	Date            string     `json:"date"`
	ExcludeDates    []string   `json:"exclude_dates"`
	ForceRefresh    bool       `json:"force_refresh"`
	IncludeDayRoute bool       `json:"include_day_route"`
}

type BookingSummary struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	Address      string    `json:"address"`
	StartAt      time.Time `json:"start_at"`
}

type DayStatsResponse struct {
	Date                 string  `json:"date"`
	BookingCount         int     `json:"booking_count"`
	TotalDistanceKm      float64 `json:"total_distance_km"`
	TotalDurationMinutes float64 `json:"total_duration_minutes"`
}

type NearestResponse struct {
	Booking         BookingSummary   `json:"booking"`
	DistanceKm      float64          `json:"distance_km"`
	DurationMinutes float64          `json:"duration_minutes"`
	SameDay         DayStatsResponse `json:"same_day"`
	DayRoute        *RouteResponse   `json:"day_route,omitempty"`
}

func NewNearestResponse(res *services.NearestResult) NearestResponse {
	out := NearestResponse{
		Booking: BookingSummary{
			ID:           res.Nearest.Booking.ID,
			CustomerName: res.Nearest.Booking.CustomerName,
			Address:      res.Nearest.Booking.Address,
			StartAt:      res.Nearest.Booking.StartAt,
		},
		DistanceKm:      round2(float64(res.Nearest.DistanceMeters) / 1000),
		DurationMinutes: round2(float64(res.Nearest.DurationSeconds) / 60),
		SameDay: DayStatsResponse{
			Date:                 res.SameDay.Date,
			BookingCount:         res.SameDay.Count,
			TotalDistanceKm:      round2(float64(res.SameDay.TotalDistanceMeters) / 1000),
			TotalDurationMinutes: round2(float64(res.SameDay.TotalDurationSeconds) / 60),
		},
	}
	if res.DayRoute != nil {
		route := NewRouteResponse(res.DayRoute)
		out.DayRoute = &route
	}
	return out
}

type CheckBookingResponse struct {
	Exists     bool                 `json:"exists"`
	Status     domain.BookingStatus `json:"status,omitempty"`
	StartAt    *time.Time           `json:"start_at,omitempty"`
	CustomerID string               `json:"customer_id,omitempty"`
}
