package services

import (
	"fmt"
	"passenger-itinerary-service/internal/domain"
	"strings"
)

// How a new entry picks up and drops off its passenger.
// The zero value rides the service route on both ends.
type EntryOptions struct {
	PickupMode          domain.AddressMode
	PickupCustomAddress string
	PickupCustomCity    string
	PickupTime          string

	DestinationMode          domain.AddressMode
	DestinationCustomAddress string
	DestinationCustomCity    string
}

// NewRosterEntry normalizes a roster passenger into a stop entry,
// snapshotting its registered address. The entry has no ID or Order yet;
// SequenceManager.Insert assigns both.
func NewRosterEntry(p domain.RosterPassenger, opts EntryOptions) (domain.PassengerStopEntry, error) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return domain.PassengerStopEntry{}, fmt.Errorf("new roster entry: passenger id is empty: %w", domain.ErrInvalidPassenger)
	}

	e, err := newEntry(RosterDisplayName(p), opts)
	if err != nil {
		return domain.PassengerStopEntry{}, fmt.Errorf("new roster entry %q: %w", id, err)
	}
	e.PassengerID = id
	e.RegisteredAddress = domain.NormalizeText(p.Address)
	e.RegisteredCity = domain.NormalizeText(p.City)

	return e, nil
}

// NewAdHocEntry creates an entry for a passenger that is not in any roster.
func NewAdHocEntry(displayName string, opts EntryOptions) (domain.PassengerStopEntry, error) {
	e, err := newEntry(domain.NormalizeText(displayName), opts)
	if err != nil {
		return domain.PassengerStopEntry{}, fmt.Errorf("new ad-hoc entry: %w", err)
	}
	return e, nil
}

func newEntry(displayName string, opts EntryOptions) (domain.PassengerStopEntry, error) {
	e := domain.PassengerStopEntry{
		DisplayName:              displayName,
		PickupMode:               opts.PickupMode,
		PickupCustomAddress:      domain.NormalizeText(opts.PickupCustomAddress),
		PickupCustomCity:         domain.NormalizeText(opts.PickupCustomCity),
		PickupTime:               strings.TrimSpace(opts.PickupTime),
		DestinationMode:          opts.DestinationMode,
		DestinationCustomAddress: domain.NormalizeText(opts.DestinationCustomAddress),
		DestinationCustomCity:    domain.NormalizeText(opts.DestinationCustomCity),
	}
	if err := normalizeModes(&e); err != nil {
		return domain.PassengerStopEntry{}, err
	}
	return e, nil
}

// RosterDisplayName prefers the split first/last name and falls back to the
// combined FullName.
func RosterDisplayName(p domain.RosterPassenger) string {
	name := domain.NormalizeText(p.FirstName + " " + p.LastName)
	if name == "" {
		name = domain.NormalizeText(p.FullName)
	}
	return name
}

// SplitFullName splits a combined "First Last" name on its first space.
// Multi-word surnames stay in last.
func SplitFullName(full string) (first, last string) {
	full = domain.NormalizeText(full)
	first, last, _ = strings.Cut(full, " ")
	return first, last
}
