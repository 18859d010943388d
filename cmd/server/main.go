package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"route-optimizer-service/internal/adapters/bookings"
	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/adapters/geo"
	"route-optimizer-service/internal/api"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/logger"
	"route-optimizer-service/internal/platform/db"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run is the application composition root. It wires concrete adapters
// (ORS, the booking API, the chosen cache backend) behind ports and starts
// the HTTP server. Errors return instead of exiting so deferred cleanup
// (log sync, connection closes) always happens.
func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.ScheduleTZ)
	if err != nil {
		return fmt.Errorf("invalid SCHEDULE_TZ %q: %w", cfg.ScheduleTZ, err)
	}

	orsOpts := []geo.Option{
		geo.WithBaseURL(cfg.ORSBaseURL),
		geo.WithProfile(cfg.ORSProfile),
		geo.WithLogger(log),
	}

	var geocodeDB *sql.DB
	switch cfg.GeocodeCacheDriver {
	case "postgres":
		geocodeDB, err = db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		orsOpts = append(orsOpts, geo.WithGeocodeCache(cache.NewSQLGeocodeCache(geocodeDB)))
	case "sqlite":
		geocodeDB, err = db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		if err := cache.InitGeocodeSchema(ctx, geocodeDB); err != nil {
			return fmt.Errorf("init geocode schema: %w", err)
		}
		orsOpts = append(orsOpts, geo.WithGeocodeCache(cache.NewSqliteGeocodeCache(geocodeDB)))
	}
	if geocodeDB != nil {
		defer geocodeDB.Close()
	}

	provider, err := geo.NewORSProvider(cfg.ORSAPIKey, orsOpts...)
	if err != nil {
		return fmt.Errorf("build ORS provider: %w", err)
	}

	source, err := bookings.NewHTTPClient(cfg.BookingsBaseURL, cfg.BookingsToken)
	if err != nil {
		return fmt.Errorf("build bookings client: %w", err)
	}

	var bookingCache ports.BookingCache
	switch cfg.CacheBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		defer client.Close()
		bookingCache = cache.NewRedisBookingCache(client)
	default:
		mem := cache.NewMemoryBookingCache()
		go mem.Run(ctx, cfg.CacheTTL)
		bookingCache = mem
	}

	validator := services.NewBookingValidator(
		source, bookingCache, cfg.BookingsLocationID, cfg.CacheTTL, log)
	planner := services.NewRoutePlanner(
		provider, provider, validator, cfg.DepotAddress, loc, log)

	srv := &http.Server{
		Addr:              cfg.ListenPort,
		Handler:           api.NewRouter(planner, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Cold-cache optimization requests wait on external API latency.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("server listening on %s", cfg.ListenPort)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
