package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"route-optimizer-service/internal/logger"
	"route-optimizer-service/internal/platform/obs"
)

type ctxKey int

const requestIDKey ctxKey = 0

// requestID tags every request with a UUID, honoring one supplied by an
// upstream proxy, and echoes it back in the response header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom returns the request id stored by the middleware, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// statusWriter captures the final HTTP status code and number of bytes written.
// This helps distinguish "handler returned 200" from "client received a response".
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// accessLog logs one line per request and feeds the request counters. The
// metric path label uses the chi route pattern, not the raw URL, so
// parameterized routes stay one series.
func accessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = r.URL.Path
			}
			status := strconv.Itoa(sw.status)

			obs.HTTPRequests.WithLabelValues(r.Method, pattern, status).Inc()
			obs.HTTPDuration.WithLabelValues(r.Method, pattern, status).Observe(elapsed.Seconds())

			log.Info("http_request",
				logger.String("method", r.Method),
				logger.String("path", r.URL.RequestURI()),
				logger.Int("status", sw.status),
				logger.Int("bytes", sw.bytes),
				logger.Duration("duration", elapsed),
				logger.String("remote_ip", r.RemoteAddr),
				logger.String("request_id", RequestIDFrom(r.Context())),
			)
		})
	}
}
