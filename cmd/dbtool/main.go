package main

import (
	"context"
	"database/sql"
	"fmt"
	"passenger-itinerary-service/internal/adapters/cache"
	"passenger-itinerary-service/internal/adapters/repositories"
	"passenger-itinerary-service/internal/config"
	"passenger-itinerary-service/internal/platform/db"
	"passenger-itinerary-service/internal/platform/logger"
	"time"

	"github.com/sirupsen/logrus"
)

// dbtool creates the roster schema and loads the JSON seed file.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	if _, err := logger.Setup(cfg.LogLevel, ""); err != nil {
		logrus.Fatal(err)
	}

	if cfg.DatabaseURL == "" {
		logrus.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatal(err)
	}
	defer conn.Close()

	companies, err := initAndSeed(ctx, conn, cfg.SeedPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if cfg.RedisURL != "" {
		if err := invalidateRosters(ctx, cfg.RedisURL, companies); err != nil {
			logrus.Fatal(err)
		}
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) ([]string, error) {
	logrus.Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return nil, fmt.Errorf("schema initialization failed: %w", err)
	}
	logrus.Info("Schema ready.")

	logrus.WithField("seed_path", seedPath).Info("Seeding database...")
	companies, err := repositories.SeedFromJSON(ctx, conn, seedPath)
	if err != nil {
		return nil, fmt.Errorf("seeding failed: %w", err)
	}
	logrus.WithField("companies", companies).Info("Seeding complete.")

	return companies, nil
}

// invalidateRosters drops cached rosters of re-seeded companies so the
// server does not keep serving the previous data until the TTL expires.
func invalidateRosters(ctx context.Context, redisURL string, companies []string) error {
	client, err := cache.OpenRedis(ctx, redisURL)
	if err != nil {
		return fmt.Errorf("invalidate rosters: %w", err)
	}
	defer client.Close()

	rc := cache.NewRedisRosterCache(client, 0)
	for _, companyID := range companies {
		if err := rc.Invalidate(ctx, companyID); err != nil {
			return fmt.Errorf("invalidate rosters: %w", err)
		}
	}
	logrus.WithField("companies", len(companies)).Info("Roster cache invalidated.")

	return nil
}
