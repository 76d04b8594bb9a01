package domain

import "errors"

// Structural errors. These signal bookkeeping bugs or malformed commands,
// never user-recoverable form mistakes (see ValidationError for those).
var (
	ErrIndexOutOfRange        = errors.New("index out of range")
	ErrOrderIntegrity         = errors.New("order set integrity violated")
	ErrDuplicateEntry         = errors.New("duplicate entry id")
	ErrServiceTimeNotEligible = errors.New("only the first stop may use the service pickup time")
	ErrInvalidMode            = errors.New("invalid address mode")
	ErrInvalidPassenger       = errors.New("invalid passenger")
	ErrPassengerNotFound      = errors.New("passenger not found")
	ErrDraftNotFound          = errors.New("draft not found")
	ErrTooManyDrafts          = errors.New("too many open drafts")
)
