package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	RedisURL       string
	RosterCacheTTL time.Duration
	DraftIdleTTL   time.Duration
	MaxDrafts      int
	LogLevel       string
	LogFile        string
	SeedPath       string
}

// Load reads configuration from the environment, after merging a local .env
// file when one exists. DATABASE_URL and REDIS_URL are optional here; the
// server runs without a roster when the first is empty.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        Get("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:    strings.TrimSpace(os.Getenv("REDIS_URL")),
		LogLevel:    Get("LOG_LEVEL", "info"),
		LogFile:     strings.TrimSpace(os.Getenv("LOG_FILE")),
		SeedPath:    Get("SEED_PATH", "data/seeds/passengers.json"),
	}

	var err error
	if cfg.RosterCacheTTL, err = seconds("ROSTER_CACHE_TTL_SEC", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DraftIdleTTL, err = seconds("DRAFT_IDLE_TTL_SEC", 30*time.Minute); err != nil {
		return nil, err
	}

	cfg.MaxDrafts = 1000
	if v := strings.TrimSpace(os.Getenv("MAX_DRAFTS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("config: invalid MAX_DRAFTS: %q", v)
		}
		cfg.MaxDrafts = n
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("config: invalid PORT: %q", cfg.Port)
	}

	return cfg, nil
}

// seconds reads key as a positive number of seconds.
func seconds(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	sec, err := strconv.Atoi(v)
	if err != nil || sec <= 0 {
		return 0, fmt.Errorf("config: invalid %s: %q", key, v)
	}
	return time.Duration(sec) * time.Second, nil
}

// Get returns the trimmed value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
