package ports

import (
	"passenger-itinerary-service/internal/domain"
	"time"
)

// EngineMetrics receives counters and timings from the itinerary engine.
// Implementations must be safe for concurrent use; a nil EngineMetrics is
// never called by the engine.
type EngineMetrics interface {
	SequenceOperation(op string, err error)
	ValidationErrors(errs domain.ValidationErrors)
	BuildObserve(d time.Duration)
	ActiveDrafts(n int)
	RosterCacheLookup(hit bool)
}
