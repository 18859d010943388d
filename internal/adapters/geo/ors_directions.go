package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
}

// Route returns the driving leg between two coordinates.
func (o *ORSProvider) Route(ctx context.Context, from, to domain.Coordinates) (ports.RouteSummary, error) {
	return o.routeThrough(ctx, "route", []domain.Coordinates{from, to})
}

// RouteThrough requests one connected route visiting every waypoint in order.
func (o *ORSProvider) RouteThrough(ctx context.Context, waypoints []domain.Coordinates) (ports.RouteSummary, error) {
	return o.routeThrough(ctx, "route_through", waypoints)
}

func (o *ORSProvider) routeThrough(ctx context.Context, op string, waypoints []domain.Coordinates) (_ ports.RouteSummary, err error) {
	defer func() { obs.ObserveExternal("ors", op, err) }()

	if len(waypoints) < 2 {
		return ports.RouteSummary{}, errors.New("directions: at least two waypoints are required")
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	coordinates := make([][]float64, 0, len(waypoints))
	for _, wp := range waypoints {
		coordinates = append(coordinates, wp.CoordsToList())
	}

	payload, err := json.Marshal(directionsRequest{Coordinates: coordinates})
	if err != nil {
		return ports.RouteSummary{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		// ORS answers 404 with code 2009 when no route connects the points.
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return ports.RouteSummary{}, &domain.NoRouteError{Waypoints: len(waypoints)}
		}
		return ports.RouteSummary{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteSummary{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return ports.RouteSummary{}, &domain.NoRouteError{Waypoints: len(waypoints)}
	}

	summary := decoded.Routes[0].Summary

	// ORS returns float metrics; round to nearest integer for domain consistency.
	return ports.RouteSummary{
		DistanceMeters:  int(math.Round(summary.Distance)),
		DurationSeconds: int(math.Round(summary.Duration)),
	}, nil
}
