package geo

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/logger"
)

// GeocodeCache is the persistent address -> coordinate cache the provider
// consults before going to the network. Implementations live in
// internal/adapters/cache; a nil cache disables caching.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// ORSProvider implements the Geocoder and DirectionsProvider ports using
// OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - External API calls with bounded retry/backoff
//   - Client-side throttling against the provider's rate limits
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	profile      string
	limiter      *rate.Limiter
	geocodeCache GeocodeCache
	log          logger.Logger
}

type Option func(*ORSProvider)

func WithBaseURL(u string) Option { return func(o *ORSProvider) { o.baseURL = u } }

func WithProfile(p string) Option { return func(o *ORSProvider) { o.profile = p } }

func WithGeocodeCache(c GeocodeCache) Option {
	return func(o *ORSProvider) { o.geocodeCache = c }
}

func WithLogger(l logger.Logger) Option { return func(o *ORSProvider) { o.log = l } }

func NewORSProvider(apiKey string, opts ...Option) (*ORSProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
		// The free ORS tier allows 40 req/min; stay under it.
		limiter: rate.NewLimiter(rate.Every(1600*time.Millisecond), 5),
		log:     logger.Nop(),
	}

	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (o *ORSProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
