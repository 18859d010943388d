package geo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"route-optimizer-service/internal/domain"
)

// The services fan out geocode and directions calls across goroutines, so
// the mocks must count calls safely under concurrency.
func TestMocksCountCallsConcurrently(t *testing.T) {
	coords := map[string]domain.Coordinates{
		"a": {Lon: 13.41, Lat: 52.53},
		"b": {Lon: 13.42, Lat: 52.54},
	}
	geocoder := NewMockGeocoder(coords)
	directions := NewMockDirections(coords, []MockLeg{
		{From: "a", To: "b", Meters: 500, Seconds: 60},
	})

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := geocoder.Geocode(context.Background(), "a")
			assert.NoError(t, err)
			_, err = directions.Route(context.Background(), coords["a"], coords["b"])
			assert.NoError(t, err)
			_, err = directions.RouteThrough(context.Background(),
				[]domain.Coordinates{coords["a"], coords["b"]})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, geocoder.Calls)
	assert.Equal(t, 2*workers, directions.Calls)
}
