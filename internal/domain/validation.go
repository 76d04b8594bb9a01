package domain

import "fmt"

// ValidationKind names the rule a validation error comes from.
type ValidationKind string

const (
	// Fatal: order values are not exactly {1..N} or entry ids collide.
	KindOrderIntegrity           ValidationKind = "order_integrity"
	KindRequiresExplicitTime     ValidationKind = "requires_explicit_time"
	KindInvalidTimeFormat        ValidationKind = "invalid_time_format"
	KindInvalidMode              ValidationKind = "invalid_mode"
	KindCustomAddressRequired    ValidationKind = "custom_address_required"
	KindRegisteredAddressMissing ValidationKind = "registered_address_missing"
	KindEmptyDisplayName         ValidationKind = "empty_display_name"
)

// Field names reported with validation errors, matching the entry's JSON keys.
const (
	FieldOrder                    = "order"
	FieldID                       = "id"
	FieldDisplayName              = "display_name"
	FieldPickupTime               = "pickup_time"
	FieldPickupMode               = "pickup_mode"
	FieldPickupCustomAddress      = "pickup_custom_address"
	FieldDestinationMode          = "destination_mode"
	FieldDestinationCustomAddress = "destination_custom_address"
)

// Fatal reports whether the kind signals broken internal bookkeeping rather
// than a user mistake.
func (k ValidationKind) Fatal() bool { return k == KindOrderIntegrity }

// One failed rule for one entry field. EntryID is empty for list-level errors.
type ValidationError struct {
	EntryID string         `json:"entry_id,omitempty"`
	Field   string         `json:"field"`
	Kind    ValidationKind `json:"kind"`
}

func (e ValidationError) Error() string {
	if e.EntryID == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Kind)
	}
	return fmt.Sprintf("entry %s: %s: %s", e.EntryID, e.Field, e.Kind)
}

type ValidationErrors []ValidationError

// Fatal reports whether any error is of a fatal kind.
func (ve ValidationErrors) Fatal() bool {
	for _, e := range ve {
		if e.Kind.Fatal() {
			return true
		}
	}
	return false
}

// ForEntry returns the errors reported for a single entry.
func (ve ValidationErrors) ForEntry(id string) ValidationErrors {
	var out ValidationErrors
	for _, e := range ve {
		if e.EntryID == id {
			out = append(out, e)
		}
	}
	return out
}

// Kinds lists the kind of every error, in report order.
func (ve ValidationErrors) Kinds() []ValidationKind {
	out := make([]ValidationKind, 0, len(ve))
	for _, e := range ve {
		out = append(out, e.Kind)
	}
	return out
}

// Has reports whether an error of kind k is present for entry id.
func (ve ValidationErrors) Has(id string, k ValidationKind) bool {
	for _, e := range ve {
		if e.EntryID == id && e.Kind == k {
			return true
		}
	}
	return false
}
