package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"passenger-itinerary-service/internal/domain"
	"passenger-itinerary-service/internal/platform/obs"
	"passenger-itinerary-service/internal/ports"
	"passenger-itinerary-service/internal/services"
)

// Postgres-backed implementation of the PassengerRoster port.
type PostgresRosterRepository struct{ DB *sql.DB }

var _ ports.PassengerRoster = (*PostgresRosterRepository)(nil)

func NewPostgresRosterRepository(db *sql.DB) *PostgresRosterRepository {
	return &PostgresRosterRepository{DB: db}
}

const selectPassengerColumns = `
	SELECT
		company_id,
		passenger_id,
		first_name,
		last_name,
		full_name,
		address,
		city
	FROM passengers
`

// Return a company's passengers sorted by name.
func (r *PostgresRosterRepository) ListPassengers(ctx context.Context, companyID string) (_ []domain.RosterPassenger, err error) {
	defer obs.Time(ctx, "roster.ListPassengers")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres roster repository: DB is nil")
	}

	query := selectPassengerColumns + `
	WHERE company_id = $1
	ORDER BY last_name, first_name, full_name, passenger_id;
	`
	rows, err := r.DB.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list passengers: query passengers table: %w", err)
	}
	defer rows.Close()

	passengers := make([]domain.RosterPassenger, 0, 64)
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, fmt.Errorf("list passengers: %w", err)
		}
		passengers = append(passengers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list passengers: row iteration: %w", err)
	}

	return passengers, nil
}

func (r *PostgresRosterRepository) GetPassenger(ctx context.Context, companyID, passengerID string) (_ domain.RosterPassenger, err error) {
	defer obs.Time(ctx, "roster.GetPassenger")(&err)

	if r.DB == nil {
		return domain.RosterPassenger{}, errors.New("postgres roster repository: DB is nil")
	}

	query := selectPassengerColumns + `
	WHERE company_id = $1 AND passenger_id = $2;
	`
	p, err := scanPassenger(r.DB.QueryRowContext(ctx, query, companyID, passengerID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RosterPassenger{}, fmt.Errorf("get passenger %q: %w", passengerID, domain.ErrPassengerNotFound)
	}
	if err != nil {
		return domain.RosterPassenger{}, fmt.Errorf("get passenger %q: %w", passengerID, err)
	}

	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPassenger(row rowScanner) (domain.RosterPassenger, error) {
	var p domain.RosterPassenger
	if err := row.Scan(&p.CompanyID, &p.ID, &p.FirstName, &p.LastName, &p.FullName, &p.Address, &p.City); err != nil {
		return domain.RosterPassenger{}, fmt.Errorf("scan passenger: %w", err)
	}
	return completeNames(p), nil
}

// completeNames fills in the split name for rows that only carry full_name.
func completeNames(p domain.RosterPassenger) domain.RosterPassenger {
	if p.FirstName == "" && p.LastName == "" && p.FullName != "" {
		p.FirstName, p.LastName = services.SplitFullName(p.FullName)
	}
	if p.FullName == "" {
		p.FullName = services.RosterDisplayName(p)
	}
	return p
}
