package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// AddressMode selects where a passenger's pickup or drop-off address comes from.
type AddressMode string

const (
	// Ride the service's declared pickup/destination.
	AddressModeService AddressMode = "service"
	// Use the address registered for the passenger in the company roster.
	AddressModeRegistered AddressMode = "registered"
	// One-off address typed in for this service only (indirizzo personalizzato).
	AddressModeCustom AddressMode = "custom"
)

// ParseAddressMode maps a raw mode string onto an AddressMode.
// A blank string yields AddressModeService.
func ParseAddressMode(raw string) (AddressMode, error) {
	switch AddressMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", AddressModeService:
		return AddressModeService, nil
	case AddressModeRegistered:
		return AddressModeRegistered, nil
	case AddressModeCustom:
		return AddressModeCustom, nil
	}
	return "", fmt.Errorf("parse address mode %q: %w", raw, ErrInvalidMode)
}

// Canonical returns m in its canonical form; ok is false for an unknown mode.
func (m AddressMode) Canonical() (AddressMode, bool) {
	c, err := ParseAddressMode(string(m))
	return c, err == nil
}

// Represents one passenger riding a service, together with where and when
// they are picked up and dropped off.
//
// ID identifies the entry itself and is independent of PassengerID, which
// links to a roster record and is empty for ad-hoc passengers. Optional
// string fields treat blank as absent.
type PassengerStopEntry struct {
	ID          string `json:"id"`
	PassengerID string `json:"passenger_id,omitempty"`
	DisplayName string `json:"display_name"`

	RegisteredAddress string `json:"registered_address,omitempty"`
	RegisteredCity    string `json:"registered_city,omitempty"`

	// 1-based position in the pickup sequence.
	Order int `json:"order"`

	PickupMode            AddressMode `json:"pickup_mode"`
	PickupCustomAddress   string      `json:"pickup_custom_address,omitempty"`
	PickupCustomCity      string      `json:"pickup_custom_city,omitempty"`
	PickupTime            string      `json:"pickup_time,omitempty"`
	PickupUsesServiceTime bool        `json:"pickup_uses_service_time"`

	DestinationMode          AddressMode `json:"destination_mode"`
	DestinationCustomAddress string      `json:"destination_custom_address,omitempty"`
	DestinationCustomCity    string      `json:"destination_custom_city,omitempty"`
}

// IsFirst reports whether the entry is the first pickup of the sequence.
func (e PassengerStopEntry) IsFirst() bool { return e.Order == 1 }

// RequiresExplicitTime reports whether the entry must carry its own pickup time.
func (e PassengerStopEntry) RequiresExplicitTime() bool {
	return !(e.IsFirst() && e.PickupUsesServiceTime)
}

// UsesDefaults reports whether both ends ride the service's declared route.
func (e PassengerStopEntry) UsesDefaults() bool {
	pickup, pok := e.PickupMode.Canonical()
	dest, dok := e.DestinationMode.Canonical()
	return pok && dok && pickup == AddressModeService && dest == AddressModeService
}

var clockTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClockTime reports whether s is a well-formed 24h "HH:MM" time.
func ValidClockTime(s string) bool {
	return clockTimePattern.MatchString(strings.TrimSpace(s))
}

// IsBlank reports whether s is empty once surrounding whitespace is removed.
func IsBlank(s string) bool { return strings.TrimSpace(s) == "" }

// NormalizeText trims s and collapses inner whitespace runs to one space.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
