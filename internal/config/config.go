package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Directions / geocoding provider (OpenRouteService).
	ORSAPIKey  string
	ORSBaseURL string
	ORSProfile string

	// Booking system of record.
	BookingsBaseURL    string
	BookingsToken      string
	BookingsLocationID string

	// Routing.
	DepotAddress string // fixed starting point for every route (stop index 0)
	ScheduleTZ   string // IANA timezone bookings are scheduled in

	// Validity cache.
	CacheBackend string        // "memory" | "redis"
	CacheTTL     time.Duration // freshness window for validated booking sets

	// Redis (only read when CacheBackend == "redis").
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Persistent geocode cache. Empty driver disables it.
	GeocodeCacheDriver string // "" | "postgres" | "sqlite"
	DatabaseURL        string // postgres DSN
	SQLitePath         string
}

func Load() (*Config, error) {
	cfg := &Config{
		ListenPort:      getenv("LISTEN_PORT", ":8080"),
		ShutdownTimeout: durationOr("SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		PrettyLog: boolOr("PRETTY_LOG", false),

		ORSAPIKey:  os.Getenv("ORS_API_KEY"),
		ORSBaseURL: getenv("ORS_BASE_URL", "https://api.openrouteservice.org"),
		ORSProfile: getenv("ORS_PROFILE", "driving-car"),

		BookingsBaseURL:    os.Getenv("BOOKINGS_BASE_URL"),
		BookingsToken:      os.Getenv("BOOKINGS_TOKEN"),
		BookingsLocationID: os.Getenv("BOOKINGS_LOCATION_ID"),

		DepotAddress: os.Getenv("DEPOT_ADDRESS"),
		ScheduleTZ:   getenv("SCHEDULE_TZ", "UTC"),

		CacheBackend: getenv("CACHE_BACKEND", "memory"),
		CacheTTL:     durationOr("CACHE_TTL", 10*time.Second),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),

		GeocodeCacheDriver: getenv("GEOCODE_CACHE_DRIVER", ""),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SQLitePath:         getenv("SQLITE_PATH", "data/app.db"),
	}

	if cfg.ORSAPIKey == "" {
		return nil, fmt.Errorf("config: ORS_API_KEY is required")
	}
	if cfg.BookingsBaseURL == "" {
		return nil, fmt.Errorf("config: BOOKINGS_BASE_URL is required")
	}
	if cfg.BookingsLocationID == "" {
		return nil, fmt.Errorf("config: BOOKINGS_LOCATION_ID is required")
	}
	if cfg.DepotAddress == "" {
		return nil, fmt.Errorf("config: DEPOT_ADDRESS is required")
	}
	switch cfg.CacheBackend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("config: CACHE_BACKEND must be \"memory\" or \"redis\", got %q", cfg.CacheBackend)
	}
	switch cfg.GeocodeCacheDriver {
	case "", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("config: GEOCODE_CACHE_DRIVER must be empty, \"postgres\" or \"sqlite\", got %q", cfg.GeocodeCacheDriver)
	}
	if cfg.GeocodeCacheDriver == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required when GEOCODE_CACHE_DRIVER=postgres")
	}

	return cfg, nil
}

// Get returns an environment variable or a fallback; exported for tools.
func Get(key, fallback string) string {
	return getenv(key, fallback)
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func boolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func durationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
