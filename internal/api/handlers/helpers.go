package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/logger"
)

func writeJSON(w http.ResponseWriter, r *http.Request, log logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("encode failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, status int, reason, msg string) {
	writeJSON(w, r, log, status, map[string]string{
		"error":  msg,
		"reason": reason,
	})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Not-found
// conditions are the caller's problem, upstream faults are gateway errors,
// and anything unclassified stays an opaque 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	var reasoner domain.Reasoner
	if !errors.As(err, &reasoner) {
		log.Error("request failed",
			logger.String("path", r.URL.Path), logger.Error(err))
		writeError(w, r, log, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch reasoner.Reason() {
	case domain.ReasonAddressNotFound, domain.ReasonNoValidBookings:
		status = http.StatusNotFound
	case domain.ReasonRateLimited:
		status = http.StatusServiceUnavailable
	case domain.ReasonNoRoute, domain.ReasonBookingSource:
		status = http.StatusBadGateway
	}

	writeError(w, r, log, status, reasoner.Reason(), reasoner.Error())
}

// decodeBody decodes exactly one JSON object from the request body.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}
