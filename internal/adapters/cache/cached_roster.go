package cache

import (
	"context"
	"fmt"
	"passenger-itinerary-service/internal/domain"
	"passenger-itinerary-service/internal/ports"

	"github.com/sirupsen/logrus"
)

// CachedRoster serves roster lookups from a cache before falling back to the
// backing roster. It implements ports.PassengerRoster.
//
// Cache failures never fail a lookup: a read error is treated as a miss and
// a write error is only logged.
type CachedRoster struct {
	next    ports.PassengerRoster
	cache   ports.RosterCache
	log     logrus.FieldLogger
	metrics ports.EngineMetrics
}

var _ ports.PassengerRoster = (*CachedRoster)(nil)

func NewCachedRoster(
	next ports.PassengerRoster,
	cache ports.RosterCache,
	log logrus.FieldLogger,
	metrics ports.EngineMetrics,
) *CachedRoster {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CachedRoster{
		next:    next,
		cache:   cache,
		log:     log.WithField("component", "roster_cache"),
		metrics: metrics,
	}
}

func (c *CachedRoster) ListPassengers(ctx context.Context, companyID string) ([]domain.RosterPassenger, error) {
	passengers, ok, err := c.cache.Get(ctx, companyID)
	if err != nil {
		c.log.WithError(err).WithField("company_id", companyID).Warn("roster cache read failed")
	}
	c.lookup(ok && err == nil)
	if ok && err == nil {
		return passengers, nil
	}

	passengers, err = c.next.ListPassengers(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("cached roster: %w", err)
	}

	if err := c.cache.Put(ctx, companyID, passengers); err != nil {
		c.log.WithError(err).WithField("company_id", companyID).Warn("roster cache write failed")
	}

	return passengers, nil
}

// GetPassenger looks the passenger up in the (possibly cached) company list.
func (c *CachedRoster) GetPassenger(ctx context.Context, companyID, passengerID string) (domain.RosterPassenger, error) {
	passengers, err := c.ListPassengers(ctx, companyID)
	if err != nil {
		return domain.RosterPassenger{}, err
	}

	for _, p := range passengers {
		if p.ID == passengerID {
			return p, nil
		}
	}

	return domain.RosterPassenger{}, fmt.Errorf("get passenger %q: %w", passengerID, domain.ErrPassengerNotFound)
}

func (c *CachedRoster) lookup(hit bool) {
	if c.metrics != nil {
		c.metrics.RosterCacheLookup(hit)
	}
}
