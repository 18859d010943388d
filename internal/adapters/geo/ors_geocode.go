package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/logger"
	"route-optimizer-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves a single free-text address via /geocode/search, consulting
// the persistent cache first. An address the provider cannot place returns a
// *domain.AddressNotFoundError; that outcome is never cached.
func (o *ORSProvider) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer func() { obs.ObserveExternal("ors", "geocode", err) }()

	norm := o.normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	if o.geocodeCache != nil {
		hits, cacheErr := o.geocodeCache.GetMany(ctx, []string{norm})
		if cacheErr != nil {
			return domain.Coordinates{}, fmt.Errorf("geocode cache read: %w", cacheErr)
		}
		if c, ok := hits[norm]; ok {
			obs.CacheHit("geocode")
			return c, nil
		}
		obs.CacheMiss("geocode")
	}

	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, &domain.AddressNotFoundError{Address: address}
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	result := domain.Coordinates{Lon: coords[0], Lat: coords[1]}

	if o.geocodeCache != nil {
		if cacheErr := o.geocodeCache.PutMany(ctx, map[string]domain.Coordinates{norm: result}); cacheErr != nil {
			o.log.Warn("geocode cache write failed", logger.Error(cacheErr))
		}
	}

	return result, nil
}
