package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/platform/db"
)

// dbtool prepares the persistent geocode cache schema so the server can run
// against a fresh database.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	driver := config.Get("GEOCODE_CACHE_DRIVER", "sqlite")

	var (
		handle *sql.DB
		err    error
	)
	switch driver {
	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			log.Fatal("DATABASE_URL is required")
		}
		handle, err = db.OpenPostgres(databaseURL)
	case "sqlite":
		handle, err = db.OpenSQLite(config.Get("SQLITE_PATH", "data/app.db"))
	default:
		log.Fatalf("unsupported GEOCODE_CACHE_DRIVER %q", driver)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer handle.Close()

	log.Println("Initializing geocode cache schema...")
	if err := cache.InitGeocodeSchema(context.Background(), handle); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
