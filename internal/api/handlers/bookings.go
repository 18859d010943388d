package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/logger"
	"route-optimizer-service/internal/services"
)

// defaultLookahead bounds the search window when the request does not give
// one: bookings further out are too likely to move to be worth ranking.
const defaultLookahead = 14 * 24 * time.Hour

type BookingHandler struct {
	Planner *services.RoutePlanner
	Log     logger.Logger

	// Now is swappable in tests.
	Now func() time.Time
}

func (h *BookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Nearest finds the still-valid booking whose customer is closest by driving
// distance to the request address.
func (h *BookingHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	var req dto.NearestRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "bad_request", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "bad_request", "address is required")
		return
	}
	if req.Date != "" {
		if _, err := time.Parse(time.DateOnly, req.Date); err != nil {
			writeError(w, r, h.Log, http.StatusBadRequest, "bad_request", "date must be formatted YYYY-MM-DD")
			return
		}
	}
	for _, d := range req.ExcludeDates {
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			writeError(w, r, h.Log, http.StatusBadRequest, "bad_request", "exclude_dates must be formatted YYYY-MM-DD")
			return
		}
	}

	window := domain.TimeWindow{Start: h.now(), End: h.now().Add(defaultLookahead)}
	if req.StartAt != nil {
		window.Start = *req.StartAt
	}
	if req.EndAt != nil {
		window.End = *req.EndAt
	}
	if !window.End.After(window.Start) {
		writeError(w, r, h.Log, http.StatusBadRequest, "bad_request", "end_at must be after start_at")
		return
	}

	res, err := h.Planner.FindNearest(r.Context(), services.NearestQuery{
		SourceAddress:   req.Address,
		Window:          window,
		ExcludeDates:    req.ExcludeDates,
		SpecificDate:    req.Date,
		ForceRefresh:    req.ForceRefresh,
		IncludeDayRoute: req.IncludeDayRoute,
	})
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.NewNearestResponse(res))
}

// Check re-reads one booking straight from the system of record, bypassing
// the validity cache.
func (h *BookingHandler) Check(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "bad_request", "booking id is required")
		return
	}

	probe, err := h.Planner.CheckBooking(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.CheckBookingResponse{
		Exists:     probe.Exists,
		Status:     probe.Status,
		StartAt:    probe.StartAt,
		CustomerID: probe.CustomerID,
	})
}
