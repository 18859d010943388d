package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ORS_API_KEY", "key")
	t.Setenv("BOOKINGS_BASE_URL", "http://bookings.local")
	t.Setenv("BOOKINGS_LOCATION_ID", "loc-1")
	t.Setenv("DEPOT_ADDRESS", "1 Depot Way")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequired(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.ListenPort)
		assert.Equal(t, 10*time.Second, cfg.CacheTTL)
		assert.Equal(t, "memory", cfg.CacheBackend)
		assert.Equal(t, "driving-car", cfg.ORSProfile)
	})

	t.Run("missing required key fails", func(t *testing.T) {
		setRequired(t)
		t.Setenv("ORS_API_KEY", "")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("unknown cache backend fails", func(t *testing.T) {
		setRequired(t)
		t.Setenv("CACHE_BACKEND", "memcached")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("postgres geocode cache needs a database url", func(t *testing.T) {
		setRequired(t)
		t.Setenv("GEOCODE_CACHE_DRIVER", "postgres")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestHelperFallbacks(t *testing.T) {
	t.Run("durationOr", func(t *testing.T) {
		t.Setenv("SOME_TTL", "")
		assert.Equal(t, 10*time.Second, durationOr("SOME_TTL", 10*time.Second))

		t.Setenv("SOME_TTL", "30s")
		assert.Equal(t, 30*time.Second, durationOr("SOME_TTL", 10*time.Second))

		// An unparsable value falls back rather than failing startup.
		t.Setenv("SOME_TTL", "ten seconds")
		assert.Equal(t, 10*time.Second, durationOr("SOME_TTL", 10*time.Second))
	})

	t.Run("boolOr", func(t *testing.T) {
		t.Setenv("SOME_FLAG", "true")
		assert.True(t, boolOr("SOME_FLAG", false))

		t.Setenv("SOME_FLAG", "yes please")
		assert.False(t, boolOr("SOME_FLAG", false))
	})
}
