package ports

import (
	"context"
	"passenger-itinerary-service/internal/domain"
)

// Port: a boundary for reading a company's passenger roster (rubrica).
type PassengerRoster interface {
	// Return all passengers registered under the company.
	ListPassengers(ctx context.Context, companyID string) ([]domain.RosterPassenger, error)
	// Return one passenger, or an error wrapping domain.ErrPassengerNotFound.
	GetPassenger(ctx context.Context, companyID string, passengerID string) (domain.RosterPassenger, error)
}
