package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"passenger-itinerary-service/internal/domain"
	"passenger-itinerary-service/internal/platform/obs"
	"passenger-itinerary-service/internal/ports"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const rosterKeyPrefix = "roster:"

// RedisRosterCache keeps each company's roster as one JSON value with a TTL.
type RedisRosterCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.RosterCache = (*RedisRosterCache)(nil)

func NewRedisRosterCache(client *redis.Client, ttl time.Duration) *RedisRosterCache {
	return &RedisRosterCache{client: client, ttl: ttl}
}

// OpenRedis connects to the server at a redis:// URL and verifies it answers.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("open redis: verify connection: %w", err)
	}

	return client, nil
}

func rosterKey(companyID string) string {
	return rosterKeyPrefix + strings.TrimSpace(companyID)
}

// Get returns the cached roster; ok is false on a miss.
func (c *RedisRosterCache) Get(ctx context.Context, companyID string) (_ []domain.RosterPassenger, _ bool, err error) {
	defer obs.Time(ctx, "roster.cache.Get")(&err)

	if c.client == nil {
		return nil, false, errors.New("roster cache: client is nil")
	}

	raw, err := c.client.Get(ctx, rosterKey(companyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get roster cache company=%q: %w", companyID, err)
	}

	var passengers []domain.RosterPassenger
	if err := json.Unmarshal(raw, &passengers); err != nil {
		return nil, false, fmt.Errorf("get roster cache company=%q: decode: %w", companyID, err)
	}

	return passengers, true, nil
}

// Put stores a company's roster, replacing any previous value.
func (c *RedisRosterCache) Put(ctx context.Context, companyID string, passengers []domain.RosterPassenger) error {
	if c.client == nil {
		return errors.New("roster cache: client is nil")
	}

	if passengers == nil {
		passengers = []domain.RosterPassenger{}
	}
	raw, err := json.Marshal(passengers)
	if err != nil {
		return fmt.Errorf("put roster cache company=%q: encode: %w", companyID, err)
	}

	if err := c.client.Set(ctx, rosterKey(companyID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put roster cache company=%q: %w", companyID, err)
	}

	return nil
}

// Invalidate drops a company's cached roster.
func (c *RedisRosterCache) Invalidate(ctx context.Context, companyID string) error {
	if c.client == nil {
		return errors.New("roster cache: client is nil")
	}
	if err := c.client.Del(ctx, rosterKey(companyID)).Err(); err != nil {
		return fmt.Errorf("invalidate roster cache company=%q: %w", companyID, err)
	}
	return nil
}
