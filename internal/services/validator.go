package services

import (
	"passenger-itinerary-service/internal/domain"
	"slices"
)

// Validate checks every invariant over the full passenger list and returns
// the failures, entry by entry in pickup order.
//
// A broken order set (or colliding entry ids) is reported alone: it means the
// list's own bookkeeping is corrupt, so no per-entry result can be trusted.
// Validate never fails; an empty result means the list may be submitted.
// The service spec takes no part in the current rules; it is accepted so the
// signature matches Build.
func Validate(entries []domain.PassengerStopEntry, _ domain.ServiceItinerarySpec) domain.ValidationErrors {
	if fatal, ok := checkOrderIntegrity(entries); !ok {
		return domain.ValidationErrors{fatal}
	}

	errs := domain.ValidationErrors{}
	for _, e := range sortedByOrder(entries) {
		errs = append(errs, validateEntry(e)...)
	}

	return errs
}

// checkOrderIntegrity verifies that orders form exactly {1..N} and that
// every entry has a distinct, non-empty id.
func checkOrderIntegrity(entries []domain.PassengerStopEntry) (domain.ValidationError, bool) {
	n := len(entries)
	seenOrder := make([]bool, n+1)
	seenID := make(map[string]struct{}, n)

	for _, e := range entries {
		if e.Order < 1 || e.Order > n || seenOrder[e.Order] {
			return domain.ValidationError{
				EntryID: e.ID,
				Field:   domain.FieldOrder,
				Kind:    domain.KindOrderIntegrity,
			}, false
		}
		seenOrder[e.Order] = true

		if _, dup := seenID[e.ID]; dup || e.ID == "" {
			return domain.ValidationError{
				EntryID: e.ID,
				Field:   domain.FieldID,
				Kind:    domain.KindOrderIntegrity,
			}, false
		}
		seenID[e.ID] = struct{}{}
	}

	return domain.ValidationError{}, true
}

func validateEntry(e domain.PassengerStopEntry) domain.ValidationErrors {
	var errs domain.ValidationErrors
	add := func(field string, kind domain.ValidationKind) {
		errs = append(errs, domain.ValidationError{EntryID: e.ID, Field: field, Kind: kind})
	}

	switch {
	case e.RequiresExplicitTime() && !domain.ValidClockTime(e.PickupTime):
		add(domain.FieldPickupTime, domain.KindRequiresExplicitTime)
	case !domain.IsBlank(e.PickupTime) && !domain.ValidClockTime(e.PickupTime):
		add(domain.FieldPickupTime, domain.KindInvalidTimeFormat)
	}

	pickup, ok := e.PickupMode.Canonical()
	if !ok {
		add(domain.FieldPickupMode, domain.KindInvalidMode)
	}
	dest, ok := e.DestinationMode.Canonical()
	if !ok {
		add(domain.FieldDestinationMode, domain.KindInvalidMode)
	}

	if pickup == domain.AddressModeCustom && domain.IsBlank(e.PickupCustomAddress) {
		add(domain.FieldPickupCustomAddress, domain.KindCustomAddressRequired)
	}
	if dest == domain.AddressModeCustom && domain.IsBlank(e.DestinationCustomAddress) {
		add(domain.FieldDestinationCustomAddress, domain.KindCustomAddressRequired)
	}

	if pickup == domain.AddressModeRegistered && domain.IsBlank(e.RegisteredAddress) {
		add(domain.FieldPickupMode, domain.KindRegisteredAddressMissing)
	}
	if dest == domain.AddressModeRegistered && domain.IsBlank(e.RegisteredAddress) {
		add(domain.FieldDestinationMode, domain.KindRegisteredAddressMissing)
	}

	if domain.IsBlank(e.DisplayName) {
		add(domain.FieldDisplayName, domain.KindEmptyDisplayName)
	}

	return errs
}

// sortedByOrder returns a copy of entries in ascending pickup order.
func sortedByOrder(entries []domain.PassengerStopEntry) []domain.PassengerStopEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b domain.PassengerStopEntry) int {
		return a.Order - b.Order
	})
	return out
}
