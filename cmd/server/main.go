package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"passenger-itinerary-service/internal/adapters/cache"
	"passenger-itinerary-service/internal/adapters/repositories"
	"passenger-itinerary-service/internal/api"
	"passenger-itinerary-service/internal/config"
	"passenger-itinerary-service/internal/platform/db"
	"passenger-itinerary-service/internal/platform/logger"
	"passenger-itinerary-service/internal/platform/metrics"
	"passenger-itinerary-service/internal/ports"
	"passenger-itinerary-service/internal/services"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	logFile, err := logger.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		logrus.Fatal(err)
	}
	defer logFile.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logrus.StandardLogger()
	collector := metrics.NewCollector()

	roster, closeRoster, err := openRoster(ctx, cfg, log, collector)
	if err != nil {
		logrus.Fatal(err)
	}
	defer closeRoster()

	store := services.NewDraftStore(log, collector,
		services.WithIdleTTL(cfg.DraftIdleTTL),
		services.WithMaxDrafts(cfg.MaxDrafts),
	)
	go store.RunSweeper(ctx, sweepInterval(cfg.DraftIdleTTL))

	router := api.NewRouter(store, roster, collector.Handler(), log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown")
		}
	}()

	log.WithField("addr", srv.Addr).Info("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatal(err)
	}
	log.Info("server stopped")
}

// openRoster connects the passenger roster: Postgres, fronted by Redis when
// REDIS_URL is set. Without DATABASE_URL the server runs without a roster and
// only ad-hoc passengers can be added.
func openRoster(
	ctx context.Context,
	cfg *config.Config,
	log logrus.FieldLogger,
	collector *metrics.Collector,
) (ports.PassengerRoster, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL is not set; roster endpoints are disabled")
		return nil, func() {}, nil
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() { _ = sqlDB.Close() }}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var roster ports.PassengerRoster = repositories.NewPostgresRosterRepository(sqlDB)

	if cfg.RedisURL != "" {
		var client *redis.Client
		client, err = cache.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = client.Close() })

		roster = cache.NewCachedRoster(roster, cache.NewRedisRosterCache(client, cfg.RosterCacheTTL), log, collector)
		log.WithField("ttl", cfg.RosterCacheTTL).Info("roster cache enabled")
	}

	return roster, closeAll, nil
}

// sweepInterval checks for idle drafts a few times per TTL, at most once a
// second.
func sweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Second)
}
