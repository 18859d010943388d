package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// ExternalCalls counts outbound calls to rate-limited providers.
	ExternalCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "external_calls_total", Help: "Outbound provider calls by service, operation, and outcome."},
		[]string{"service", "op", "outcome"},
	)
	// CacheEvents counts validity/geocode cache hits and misses.
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cache_events_total", Help: "Cache events by cache name and event."},
		[]string{"cache", "event"},
	)
)

var regOnce sync.Once

// RegisterDefault registers collectors on the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(ExternalCalls)
		Registry.MustRegister(CacheEvents)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// ObserveExternal is the one-liner adapters use after each provider call.
func ObserveExternal(service, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ExternalCalls.WithLabelValues(service, op, outcome).Inc()
}

// CacheHit / CacheMiss record cache effectiveness per cache name.
func CacheHit(cache string)  { CacheEvents.WithLabelValues(cache, "hit").Inc() }
func CacheMiss(cache string) { CacheEvents.WithLabelValues(cache, "miss").Inc() }
