package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"route-optimizer-service/internal/api/handlers"
	"route-optimizer-service/internal/logger"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(planner *services.RoutePlanner, log logger.Logger) http.Handler {
	obs.RegisterDefault()

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Cold caches mean a burst of geocode and directions round trips, so
	// the per-request budget is generous.
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(accessLog(log))

	routeHandler := &handlers.RouteHandler{Planner: planner, Log: log}
	bookingHandler := &handlers.BookingHandler{Planner: planner, Log: log}
	cacheHandler := &handlers.CacheHandler{Planner: planner, Log: log}

	r.Get("/health", handlers.Health(log))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))

	r.Post("/routes/optimize", routeHandler.Optimize)
	r.Post("/routes/day", routeHandler.OptimizeDay)
	r.Post("/bookings/nearest", bookingHandler.Nearest)
	r.Get("/bookings/{id}/check", bookingHandler.Check)
	r.Post("/cache/invalidate", cacheHandler.Invalidate)

	return r
}
