package services

import (
	"fmt"
	"passenger-itinerary-service/internal/domain"
	"passenger-itinerary-service/internal/ports"
	"slices"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	OpInsert   = "insert"
	OpRemove   = "remove"
	OpMoveUp   = "move_up"
	OpMoveDown = "move_down"
	OpUpdate   = "update"
)

// SequenceManager owns the ordered passenger list of one service form.
//
// Entries are kept sorted so that the entry at index i always has Order i+1,
// and only the entry at index 0 may carry PickupUsesServiceTime. Every command
// either applies completely or returns an error and leaves the list untouched.
//
// A SequenceManager is not safe for concurrent use; callers serialize access
// (see Draft.Do).
type SequenceManager struct {
	entries []domain.PassengerStopEntry
	builder *ItineraryBuilder
	log     logrus.FieldLogger
	metrics ports.EngineMetrics
	newID   func() string

	// revision counts applied commands. Validation errors are reported to
	// metrics once per (revision, spec) pair, however often it is rendered.
	revision     uint64
	reported     bool
	reportedRev  uint64
	reportedSpec domain.ServiceItinerarySpec
}

type Option func(*SequenceManager)

func WithLogger(log logrus.FieldLogger) Option {
	return func(m *SequenceManager) { m.log = log }
}

func WithMetrics(metrics ports.EngineMetrics) Option {
	return func(m *SequenceManager) { m.metrics = metrics }
}

// WithIDGenerator overrides how ids are assigned to inserted entries without one.
func WithIDGenerator(newID func() string) Option {
	return func(m *SequenceManager) { m.newID = newID }
}

// NewSequenceManager returns a manager holding entries, typically the
// passengers of a service being edited. The entries must already form a
// valid order set; they are sorted and stale service-time flags are cleared.
func NewSequenceManager(entries []domain.PassengerStopEntry, opts ...Option) (*SequenceManager, error) {
	m := &SequenceManager{
		log:   logrus.StandardLogger(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logrus.StandardLogger()
	}
	m.log = m.log.WithField("component", "sequence_manager")
	m.builder = NewItineraryBuilder(m.log, m.metrics)

	loaded := slices.Clone(entries)
	for i := range loaded {
		if err := normalizeModes(&loaded[i]); err != nil {
			return nil, fmt.Errorf("load passenger sequence: entry %q: %w", loaded[i].ID, err)
		}
	}

	if fatal, ok := checkOrderIntegrity(loaded); !ok {
		if fatal.Field == domain.FieldID {
			return nil, fmt.Errorf("load passenger sequence: entry %q: %w", fatal.EntryID, domain.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("load passenger sequence: entry %q: %w", fatal.EntryID, domain.ErrOrderIntegrity)
	}

	m.entries = sortedByOrder(loaded)
	renumber(m.entries)

	return m, nil
}

// Entries returns a copy of the list in pickup order.
func (m *SequenceManager) Entries() []domain.PassengerStopEntry {
	return slices.Clone(m.entries)
}

func (m *SequenceManager) Len() int { return len(m.entries) }

// At returns a copy of the entry at index.
func (m *SequenceManager) At(index int) (domain.PassengerStopEntry, error) {
	if err := m.checkIndex(index); err != nil {
		return domain.PassengerStopEntry{}, fmt.Errorf("get entry: %w", err)
	}
	return m.entries[index], nil
}

// Insert appends entry at the end of the pickup sequence and returns it as
// stored. An empty ID is replaced by a fresh one. Only an entry inserted into
// an empty list becomes eligible for, and defaults to, the service time.
func (m *SequenceManager) Insert(entry domain.PassengerStopEntry) (_ domain.PassengerStopEntry, err error) {
	defer m.record(OpInsert, -1, &err)

	if entry.ID == "" {
		entry.ID = m.newID()
	}
	if m.indexOf(entry.ID) >= 0 {
		return domain.PassengerStopEntry{}, fmt.Errorf("insert entry %q: %w", entry.ID, domain.ErrDuplicateEntry)
	}
	if err := normalizeModes(&entry); err != nil {
		return domain.PassengerStopEntry{}, fmt.Errorf("insert entry %q: %w", entry.ID, err)
	}

	entry.Order = len(m.entries) + 1
	entry.PickupUsesServiceTime = len(m.entries) == 0
	m.entries = append(m.entries, entry)

	return entry, nil
}

// RemoveAt detaches the entry at index and closes the gap. A new first entry
// does not inherit the service time; the caller re-enables it explicitly.
func (m *SequenceManager) RemoveAt(index int) (_ IndexRemap, err error) {
	defer m.record(OpRemove, index, &err)

	if err := m.checkIndex(index); err != nil {
		return IndexRemap{}, fmt.Errorf("remove entry: %w", err)
	}

	n := len(m.entries)
	next := make([]domain.PassengerStopEntry, 0, n-1)
	next = append(next, m.entries[:index]...)
	next = append(next, m.entries[index+1:]...)
	if index == 0 && len(next) > 0 {
		next[0].PickupUsesServiceTime = false
	}
	renumber(next)
	m.entries = next

	mapping := make([]int, n)
	for i := range mapping {
		switch {
		case i < index:
			mapping[i] = i
		case i == index:
			mapping[i] = -1
		default:
			mapping[i] = i - 1
		}
	}

	return IndexRemap{Mapping: mapping}, nil
}

// MoveUp swaps the entry at index with the one before it. Moving the first
// entry up is a no-op.
func (m *SequenceManager) MoveUp(index int) (_ IndexRemap, err error) {
	defer m.record(OpMoveUp, index, &err)

	if err := m.checkIndex(index); err != nil {
		return IndexRemap{}, fmt.Errorf("move entry up: %w", err)
	}
	if index == 0 {
		return identityRemap(len(m.entries)), nil
	}

	return m.swapWithNext(index - 1), nil
}

// MoveDown swaps the entry at index with the one after it. Moving the last
// entry down is a no-op.
func (m *SequenceManager) MoveDown(index int) (_ IndexRemap, err error) {
	defer m.record(OpMoveDown, index, &err)

	if err := m.checkIndex(index); err != nil {
		return IndexRemap{}, fmt.Errorf("move entry down: %w", err)
	}
	if index == len(m.entries)-1 {
		return identityRemap(len(m.entries)), nil
	}

	return m.swapWithNext(index), nil
}

// swapWithNext exchanges positions i and i+1. When the first stop changes,
// neither entry keeps the service time: the promoted one must be re-confirmed
// and the displaced one now needs its own time.
func (m *SequenceManager) swapWithNext(i int) IndexRemap {
	m.entries[i], m.entries[i+1] = m.entries[i+1], m.entries[i]
	if i == 0 {
		m.entries[0].PickupUsesServiceTime = false
		m.entries[1].PickupUsesServiceTime = false
	}
	renumber(m.entries)

	remap := identityRemap(len(m.entries))
	remap.Mapping[i], remap.Mapping[i+1] = i+1, i
	return remap
}

// Field-level changes to one entry. Nil fields are left unchanged.
// Order, ID and the roster snapshot are not editable.
type EntryEdit struct {
	DisplayName *string

	PickupMode            *domain.AddressMode
	PickupCustomAddress   *string
	PickupCustomCity      *string
	PickupTime            *string
	PickupUsesServiceTime *bool

	DestinationMode          *domain.AddressMode
	DestinationCustomAddress *string
	DestinationCustomCity    *string
}

// Update applies edit to the entry at index. Opting a non-first entry into
// the service time, or setting an unknown mode, rejects the whole edit.
func (m *SequenceManager) Update(index int, edit EntryEdit) (_ domain.PassengerStopEntry, err error) {
	defer m.record(OpUpdate, index, &err)

	if err := m.checkIndex(index); err != nil {
		return domain.PassengerStopEntry{}, fmt.Errorf("update entry: %w", err)
	}

	e := m.entries[index]
	applyEdit(&e, edit)

	if err := normalizeModes(&e); err != nil {
		return domain.PassengerStopEntry{}, fmt.Errorf("update entry %q: %w", e.ID, err)
	}
	if e.PickupUsesServiceTime && !e.IsFirst() {
		return domain.PassengerStopEntry{}, fmt.Errorf("update entry %q at order %d: %w", e.ID, e.Order, domain.ErrServiceTimeNotEligible)
	}

	m.entries[index] = e
	return e, nil
}

func applyEdit(e *domain.PassengerStopEntry, edit EntryEdit) {
	if edit.DisplayName != nil {
		e.DisplayName = *edit.DisplayName
	}
	if edit.PickupMode != nil {
		e.PickupMode = *edit.PickupMode
	}
	if edit.PickupCustomAddress != nil {
		e.PickupCustomAddress = *edit.PickupCustomAddress
	}
	if edit.PickupCustomCity != nil {
		e.PickupCustomCity = *edit.PickupCustomCity
	}
	if edit.PickupTime != nil {
		e.PickupTime = *edit.PickupTime
	}
	if edit.PickupUsesServiceTime != nil {
		e.PickupUsesServiceTime = *edit.PickupUsesServiceTime
	}
	if edit.DestinationMode != nil {
		e.DestinationMode = *edit.DestinationMode
	}
	if edit.DestinationCustomAddress != nil {
		e.DestinationCustomAddress = *edit.DestinationCustomAddress
	}
	if edit.DestinationCustomCity != nil {
		e.DestinationCustomCity = *edit.DestinationCustomCity
	}
}

// Validate runs the validator over the current list.
func (m *SequenceManager) Validate(spec domain.ServiceItinerarySpec) domain.ValidationErrors {
	errs := Validate(m.entries, spec)
	m.reportValidation(spec, errs)
	return errs
}

// Build resolves the current list into an itinerary.
func (m *SequenceManager) Build(spec domain.ServiceItinerarySpec) domain.Itinerary {
	it := m.builder.Build(m.entries, spec)
	m.reportValidation(spec, it.Errors)
	return it
}

func (m *SequenceManager) reportValidation(spec domain.ServiceItinerarySpec, errs domain.ValidationErrors) {
	if m.metrics == nil || (m.reported && m.reportedRev == m.revision && m.reportedSpec == spec) {
		return
	}
	m.reported, m.reportedRev, m.reportedSpec = true, m.revision, spec
	m.metrics.ValidationErrors(errs)
}

func (m *SequenceManager) checkIndex(index int) error {
	if index < 0 || index >= len(m.entries) {
		return fmt.Errorf("index %d with %d entries: %w", index, len(m.entries), domain.ErrIndexOutOfRange)
	}
	return nil
}

func (m *SequenceManager) indexOf(id string) int {
	return slices.IndexFunc(m.entries, func(e domain.PassengerStopEntry) bool { return e.ID == id })
}

func (m *SequenceManager) record(op string, index int, errp *error) {
	err := *errp
	if err == nil {
		m.revision++
	} else {
		m.log.WithFields(logrus.Fields{
			"op":      op,
			"index":   index,
			"entries": len(m.entries),
		}).WithError(err).Warn("sequence command rejected")
	}
	if m.metrics != nil {
		m.metrics.SequenceOperation(op, err)
	}
}

// renumber rewrites Order from position and clears the service-time flag
// on every entry that is no longer first.
func renumber(entries []domain.PassengerStopEntry) {
	for i := range entries {
		entries[i].Order = i + 1
		if i > 0 {
			entries[i].PickupUsesServiceTime = false
		}
	}
}

func normalizeModes(e *domain.PassengerStopEntry) error {
	pickup, err := domain.ParseAddressMode(string(e.PickupMode))
	if err != nil {
		return fmt.Errorf("pickup: %w", err)
	}
	destination, err := domain.ParseAddressMode(string(e.DestinationMode))
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	e.PickupMode = pickup
	e.DestinationMode = destination
	return nil
}

// IndexRemap tells the caller where each entry moved after a command, so
// UI focus can follow the entry being edited. Mapping[old] is the new index,
// or -1 when that entry was removed.
type IndexRemap struct {
	Mapping []int `json:"mapping"`
}

func identityRemap(n int) IndexRemap {
	mapping := make([]int, n)
	for i := range mapping {
		mapping[i] = i
	}
	return IndexRemap{Mapping: mapping}
}

// Follow returns the new index of the entry previously at old, or -1 when it
// was removed or old is out of range.
func (r IndexRemap) Follow(old int) int {
	if old < 0 || old >= len(r.Mapping) {
		return -1
	}
	return r.Mapping[old]
}
