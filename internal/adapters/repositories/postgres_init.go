package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"passenger-itinerary-service/internal/domain"
	"strings"
)

// InitSchema creates the passenger roster tables.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPassengersQuery := `
	CREATE TABLE IF NOT EXISTS passengers (
		company_id TEXT NOT NULL,
		passenger_id TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		full_name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (company_id, passenger_id)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_passengers_company_name
	ON passengers(company_id, last_name, first_name);
	`

	statements := []string{
		createPassengersQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PassengerSeed struct {
	CompanyID string `json:"company_id"`
	ID        string `json:"passenger_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
}

// ParseSeed decodes and normalizes a roster seed file's content.
func ParseSeed(data []byte) ([]domain.RosterPassenger, error) {
	var items []PassengerSeed
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse seed: parse json: %w", err)
	}

	out := make([]domain.RosterPassenger, 0, len(items))
	for i, item := range items {
		p := domain.RosterPassenger{
			ID:        strings.TrimSpace(item.ID),
			CompanyID: strings.TrimSpace(item.CompanyID),
			FirstName: domain.NormalizeText(item.FirstName),
			LastName:  domain.NormalizeText(item.LastName),
			FullName:  domain.NormalizeText(item.FullName),
			Address:   domain.NormalizeText(item.Address),
			City:      domain.NormalizeText(item.City),
		}
		if p.ID == "" || p.CompanyID == "" {
			return nil, fmt.Errorf("parse seed: item at index %d: company_id and passenger_id are required", i+1)
		}
		if p.FirstName == "" && p.LastName == "" && p.FullName == "" {
			return nil, fmt.Errorf("parse seed: passenger %q: a name is required", p.ID)
		}
		out = append(out, p)
	}

	return out, nil
}

// SeedFromJSON upserts the passengers listed in a JSON seed file and returns
// the companies it touched.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) ([]string, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed passengers: read %q: %w", jsonPath, err)
	}

	rows, err := ParseSeed(bytes)
	if err != nil {
		return nil, fmt.Errorf("seed passengers: %w", err)
	}
	if err := upsertPassengers(ctx, db, rows); err != nil {
		return nil, err
	}

	return companyIDs(rows), nil
}

func upsertPassengers(ctx context.Context, db *sql.DB, rows []domain.RosterPassenger) error {
	if db == nil {
		return errors.New("seed passengers: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed passengers: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO passengers (company_id, passenger_id, first_name, last_name, full_name, address, city)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (company_id, passenger_id) DO UPDATE
	SET first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		full_name = EXCLUDED.full_name,
		address = EXCLUDED.address,
		city = EXCLUDED.city;
	`)
	if err != nil {
		return fmt.Errorf("seed passengers: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		if _, err := stmt.ExecContext(ctx, p.CompanyID, p.ID, p.FirstName, p.LastName, p.FullName, p.Address, p.City); err != nil {
			return fmt.Errorf("seed passengers: insert passenger_id=%q: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed passengers: commit tx: %w", err)
	}

	return nil
}

// companyIDs lists the distinct companies of rows in first-seen order.
func companyIDs(rows []domain.RosterPassenger) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, 4)
	for _, p := range rows {
		if _, ok := seen[p.CompanyID]; ok {
			continue
		}
		seen[p.CompanyID] = struct{}{}
		out = append(out, p.CompanyID)
	}
	return out
}
