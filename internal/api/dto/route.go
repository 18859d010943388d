package dto

import (
	"math"
	"time"

	"route-optimizer-service/internal/domain"
)

type OptimizeRequest struct {
	Addresses    []string `json:"addresses"`
	ForceRefresh bool     `json:"force_refresh"`
}

type DayRouteRequest struct {
	Date         string `json:"date"`
	ForceRefresh bool   `json:"force_refresh"`
}

type StopResponse struct {
	Position     int        `json:"position"`
	Address      string     `json:"address"`
	CustomerName string     `json:"customer_name,omitempty"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	Lon          float64    `json:"lon"`
	Lat          float64    `json:"lat"`
}

type RouteResponse struct {
	Stops                []StopResponse `json:"stops"`
	TotalDistanceKm      float64        `json:"total_distance_km"`
	TotalDurationMinutes float64        `json:"total_duration_minutes"`
}

// NewRouteResponse converts a planned route into wire shape. Internals work
// in meters and seconds; the wire format reports kilometers and minutes.
func NewRouteResponse(route *domain.Route) RouteResponse {
	stops := make([]StopResponse, 0, len(route.Stops))
	for i, s := range route.Stops {
		stops = append(stops, StopResponse{
			Position:     i,
			Address:      s.Label,
			CustomerName: s.CustomerName,
			ScheduledAt:  s.ScheduledAt,
			Lon:          s.Coord.Lon,
			Lat:          s.Coord.Lat,
		})
	}
	return RouteResponse{
		Stops:                stops,
		TotalDistanceKm:      round2(float64(route.TotalDistanceMeters) / 1000),
		TotalDurationMinutes: round2(float64(route.TotalDurationSeconds) / 60),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
