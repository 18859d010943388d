package handlers

import (
	"net/http"

	"route-optimizer-service/internal/logger"
)

// Health provides a minimal liveness check endpoint.
func Health(log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, log, http.StatusOK, map[string]string{"status": "ok"})
	}
}
