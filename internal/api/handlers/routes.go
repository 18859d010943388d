package handlers

import (
	"net/http"
	"strings"
	"time"

	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/logger"
	"route-optimizer-service/internal/services"
)

const maxRouteStops = 50

type RouteHandler struct {
	Planner *services.RoutePlanner
	Log     logger.Logger
}

// Optimize plans a depot-anchored route over the addresses in the request
// body and returns the visit order with driving totals.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "bad_request", "invalid json body")
		return
	}

	addresses := make([]string, 0, len(req.Addresses))
	for _, a := range req.Addresses {
		if strings.TrimSpace(a) != "" {
			addresses = append(addresses, a)
		}
	}
	if len(addresses) == 0 {
		writeError(w, r, h.Log, http.StatusBadRequest, "bad_request", "at least one address is required")
		return
	}
	if len(addresses) > maxRouteStops {
		writeError(w, r, h.Log, http.StatusBadRequest, "bad_request", "too many addresses")
		return
	}

	route, err := h.Planner.OptimizeAddresses(r.Context(), addresses, req.ForceRefresh)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.NewRouteResponse(route))
}

// OptimizeDay plans the visit order for one calendar day's validated
// bookings.
func (h *RouteHandler) OptimizeDay(w http.ResponseWriter, r *http.Request) {
	var req dto.DayRouteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "bad_request", "invalid json body")
		return
	}
	if _, err := time.Parse(time.DateOnly, req.Date); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "bad_request", "date must be formatted YYYY-MM-DD")
		return
	}

	route, err := h.Planner.OptimizeBookingsForDate(r.Context(), req.Date, req.ForceRefresh)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.NewRouteResponse(route))
}
