package handlers

import (
	"net/http"

	"route-optimizer-service/internal/logger"
	"route-optimizer-service/internal/services"
)

type CacheHandler struct {
	Planner *services.RoutePlanner
	Log     logger.Logger
}

// Invalidate drops every validity cache entry so the next request
// revalidates against the booking source.
func (h *CacheHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	if err := h.Planner.InvalidateCache(r.Context()); err != nil {
		h.Log.Error("cache invalidation failed", logger.Error(err))
		writeError(w, r, h.Log, http.StatusInternalServerError, "internal", "cache invalidation failed")
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, map[string]string{"status": "invalidated"})
}
