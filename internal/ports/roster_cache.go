package ports

import (
	"context"
	"passenger-itinerary-service/internal/domain"
)

// Contract for caching whole company rosters between lookups.
type RosterCache interface {
	// Return the cached roster and whether it was present.
	Get(ctx context.Context, companyID string) ([]domain.RosterPassenger, bool, error)
	// Store the roster for a company, replacing any previous value.
	Put(ctx context.Context, companyID string, passengers []domain.RosterPassenger) error
}
