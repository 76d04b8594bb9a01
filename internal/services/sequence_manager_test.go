package services

import (
	"fmt"
	"math/rand/v2"
	"passenger-itinerary-service/internal/domain"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("e%d", n)
	}
}

func newTestManager(t *testing.T, opts ...Option) *SequenceManager {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	opts = append([]Option{WithLogger(logger), WithIDGenerator(sequentialIDs())}, opts...)
	m, err := NewSequenceManager(nil, opts...)
	require.NoError(t, err)
	return m
}

func insertNamed(t *testing.T, m *SequenceManager, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := m.Insert(domain.PassengerStopEntry{DisplayName: name, PickupTime: "08:30"})
		require.NoError(t, err)
	}
}

func names(m *SequenceManager) []string {
	out := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		out = append(out, e.DisplayName)
	}
	return out
}

func requireOrderInvariants(t *testing.T, entries []domain.PassengerStopEntry) {
	t.Helper()
	flagged := 0
	for i, e := range entries {
		require.Equal(t, i+1, e.Order, "entry %q at index %d", e.ID, i)
		if e.PickupUsesServiceTime {
			flagged++
			require.Equal(t, 1, e.Order, "service time flag on entry %q with order %d", e.ID, e.Order)
		}
	}
	require.LessOrEqual(t, flagged, 1)
}

func TestSequenceManagerInsert(t *testing.T) {
	m := newTestManager(t)

	first, err := m.Insert(domain.PassengerStopEntry{DisplayName: "Anna"})
	require.NoError(t, err)
	assert.Equal(t, "e1", first.ID)
	assert.Equal(t, 1, first.Order)
	assert.True(t, first.PickupUsesServiceTime, "first entry should default to the service time")
	assert.Equal(t, domain.AddressModeService, first.PickupMode)
	assert.Equal(t, domain.AddressModeService, first.DestinationMode)

	// A caller-supplied flag is ignored for later entries.
	second, err := m.Insert(domain.PassengerStopEntry{ID: "custom-id", DisplayName: "Bruno", PickupUsesServiceTime: true})
	require.NoError(t, err)
	assert.Equal(t, "custom-id", second.ID)
	assert.Equal(t, 2, second.Order)
	assert.False(t, second.PickupUsesServiceTime)

	requireOrderInvariants(t, m.Entries())
}

func TestSequenceManagerInsertRejects(t *testing.T) {
	m := newTestManager(t)
	insertNamed(t, m, "Anna")

	_, err := m.Insert(domain.PassengerStopEntry{ID: "e1", DisplayName: "Clone"})
	require.ErrorIs(t, err, domain.ErrDuplicateEntry)

	_, err = m.Insert(domain.PassengerStopEntry{DisplayName: "Bad", PickupMode: "home"})
	require.ErrorIs(t, err, domain.ErrInvalidMode)

	assert.Equal(t, 1, m.Len())
}

func TestSequenceManagerRemoveAt(t *testing.T) {
	m := newTestManager(t)
	insertNamed(t, m, "A", "B", "C", "D")

	remap, err := m.RemoveAt(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, names(m))
	assert.Equal(t, []int{0, -1, 1, 2}, remap.Mapping)
	assert.Equal(t, 1, remap.Follow(2))
	assert.Equal(t, -1, remap.Follow(1))
	// First entry untouched by removing someone else.
	assert.True(t, m.Entries()[0].PickupUsesServiceTime)
	requireOrderInvariants(t, m.Entries())
}

func TestSequenceManagerRemoveLastLeavesEmptyList(t *testing.T) {
	m := newTestManager(t)
	insertNamed(t, m, "A")

	remap, err := m.RemoveAt(0)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, []int{-1}, remap.Mapping)

	// The next insert is the first stop again.
	e, err := m.Insert(domain.PassengerStopEntry{DisplayName: "B"})
	require.NoError(t, err)
	assert.True(t, e.PickupUsesServiceTime)
}

func TestSequenceManagerMoves(t *testing.T) {
	m := newTestManager(t)
	insertNamed(t, m, "A", "B", "C")

	remap, err := m.MoveDown(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B"}, names(m))
	assert.Equal(t, []int{0, 2, 1}, remap.Mapping)
	assert.True(t, m.Entries()[0].PickupUsesServiceTime, "swap not touching the first stop keeps its flag")

	remap, err = m.MoveUp(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, names(m))
	assert.Equal(t, []int{0, 2, 1}, remap.Mapping)

	requireOrderInvariants(t, m.Entries())
}

func TestSequenceManagerMoveBoundariesAreNoOps(t *testing.T) {
	m := newTestManager(t)
	insertNamed(t, m, "A", "B", "C")
	before := m.Entries()

	remap, err := m.MoveUp(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, remap.Mapping)
	assert.Equal(t, before, m.Entries())

	remap, err = m.MoveDown(2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, remap.Mapping)
	assert.Equal(t, before, m.Entries())
}

func TestSequenceManagerPromotionClearsServiceTime(t *testing.T) {
	m := newTestManager(t)
	insertNamed(t, m, "A", "B")
	require.True(t, m.Entries()[0].PickupUsesServiceTime)

	_, err := m.MoveDown(0)
	require.NoError(t, err)

	entries := m.Entries()
	assert.Equal(t, "B", entries[0].DisplayName)
	assert.False(t, entries[0].PickupUsesServiceTime, "promoted entry must re-confirm the service time")
	assert.Equal(t, "A", entries[1].DisplayName)
	assert.False(t, entries[1].PickupUsesServiceTime)
}

func TestSequenceManagerOutOfRange(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	m := newTestManager(t, WithLogger(logger))
	insertNamed(t, m, "A", "B")
	before := m.Entries()

	_, err := m.RemoveAt(2)
	require.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	_, err = m.MoveUp(-1)
	require.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	_, err = m.MoveDown(5)
	require.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	_, err = m.Update(3, EntryEdit{})
	require.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	_, err = m.At(2)
	require.ErrorIs(t, err, domain.ErrIndexOutOfRange)

	assert.Equal(t, before, m.Entries())

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, OpUpdate, hook.LastEntry().Data["op"])
}

func TestSequenceManagerUpdate(t *testing.T) {
	m := newTestManager(t)
	insertNamed(t, m, "A", "B")

	custom := domain.AddressModeCustom
	addr := "  Via Verdi   5 "
	at := "08:15"
	e, err := m.Update(1, EntryEdit{PickupMode: &custom, PickupCustomAddress: &addr, PickupTime: &at})
	require.NoError(t, err)
	assert.Equal(t, domain.AddressModeCustom, e.PickupMode)
	assert.Equal(t, "08:15", m.Entries()[1].PickupTime)

	off := false
	_, err = m.Update(0, EntryEdit{PickupUsesServiceTime: &off})
	require.NoError(t, err)
	assert.False(t, m.Entries()[0].PickupUsesServiceTime)

	on := true
	_, err = m.Update(0, EntryEdit{PickupUsesServiceTime: &on})
	require.NoError(t, err)
	assert.True(t, m.Entries()[0].PickupUsesServiceTime)
}

func TestSequenceManagerUpdateRejectsAtomically(t *testing.T) {
	m := newTestManager(t)
	insertNamed(t, m, "A", "B")
	before := m.Entries()

	on := true
	name := "Renamed"
	_, err := m.Update(1, EntryEdit{DisplayName: &name, PickupUsesServiceTime: &on})
	require.ErrorIs(t, err, domain.ErrServiceTimeNotEligible)

	bad := domain.AddressMode("airport")
	_, err = m.Update(0, EntryEdit{DisplayName: &name, DestinationMode: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidMode)

	assert.Equal(t, before, m.Entries())
}

func TestNewSequenceManagerLoadsExistingList(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	m, err := NewSequenceManager([]domain.PassengerStopEntry{
		{ID: "b", DisplayName: "B", Order: 2, PickupUsesServiceTime: true, PickupTime: "09:00"},
		{ID: "a", DisplayName: "A", Order: 1, PickupUsesServiceTime: true},
	}, WithLogger(logger))
	require.NoError(t, err)

	entries := m.Entries()
	assert.Equal(t, []string{"A", "B"}, names(m))
	assert.True(t, entries[0].PickupUsesServiceTime)
	assert.False(t, entries[1].PickupUsesServiceTime, "stale flag should be cleared on load")
	assert.Equal(t, domain.AddressModeService, entries[1].PickupMode)
}

func TestNewSequenceManagerRejectsCorruptList(t *testing.T) {
	logger, _ := logtest.NewNullLogger()

	_, err := NewSequenceManager([]domain.PassengerStopEntry{
		{ID: "a", Order: 1},
		{ID: "b", Order: 3},
	}, WithLogger(logger))
	require.ErrorIs(t, err, domain.ErrOrderIntegrity)

	_, err = NewSequenceManager([]domain.PassengerStopEntry{
		{ID: "a", Order: 1},
		{ID: "a", Order: 2},
	}, WithLogger(logger))
	require.ErrorIs(t, err, domain.ErrDuplicateEntry)
}

func TestSequenceManagerEntriesReturnsCopy(t *testing.T) {
	m := newTestManager(t)
	insertNamed(t, m, "A")

	entries := m.Entries()
	entries[0].DisplayName = "mutated"
	entries[0].Order = 9

	assert.Equal(t, []string{"A"}, names(m))
	assert.Equal(t, 1, m.Entries()[0].Order)
}

// Random command sequences must always leave orders at exactly {1..N} and
// the service-time flag only on the first stop.
func TestSequenceManagerInvariantPreservation(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))

	for run := 0; run < 50; run++ {
		m := newTestManager(t)
		for step := 0; step < 200; step++ {
			n := m.Len()
			// Out of range indexes are exercised on purpose.
			index := rng.IntN(n+2) - 1

			switch rng.IntN(6) {
			case 0, 1:
				_, _ = m.Insert(domain.PassengerStopEntry{DisplayName: fmt.Sprintf("p%d", step)})
			case 2:
				_, _ = m.RemoveAt(index)
			case 3:
				_, _ = m.MoveUp(index)
			case 4:
				_, _ = m.MoveDown(index)
			case 5:
				// Opting in is only legal at index 0; elsewhere it must be rejected.
				on := true
				_, err := m.Update(index, EntryEdit{PickupUsesServiceTime: &on})
				if index == 0 && n > 0 {
					require.NoError(t, err)
					require.True(t, m.Entries()[0].PickupUsesServiceTime)
				} else {
					require.Error(t, err)
				}
			}

			requireOrderInvariants(t, m.Entries())
		}

		require.False(t, m.Validate(domain.ServiceItinerarySpec{}).Fatal(), "run %d left a fatal order error", run)
	}
}

type recordedOp struct {
	op  string
	err error
}

type fakeMetrics struct {
	ops         []recordedOp
	validations int
	builds      int
	drafts      []int
	cacheHits   int
	cacheMisses int
}

func (f *fakeMetrics) SequenceOperation(op string, err error) {
	f.ops = append(f.ops, recordedOp{op: op, err: err})
}
func (f *fakeMetrics) ValidationErrors(errs domain.ValidationErrors) { f.validations += len(errs) }
func (f *fakeMetrics) BuildObserve(_ time.Duration)                  { f.builds++ }
func (f *fakeMetrics) ActiveDrafts(n int)                            { f.drafts = append(f.drafts, n) }
func (f *fakeMetrics) RosterCacheLookup(hit bool) {
	if hit {
		f.cacheHits++
		return
	}
	f.cacheMisses++
}

func TestSequenceManagerRecordsMetrics(t *testing.T) {
	metrics := &fakeMetrics{}
	m := newTestManager(t, WithMetrics(metrics))

	insertNamed(t, m, "A")
	_, err := m.RemoveAt(4)
	require.Error(t, err)
	m.Build(domain.ServiceItinerarySpec{})

	require.Len(t, metrics.ops, 2)
	assert.Equal(t, OpInsert, metrics.ops[0].op)
	assert.NoError(t, metrics.ops[0].err)
	assert.Equal(t, OpRemove, metrics.ops[1].op)
	assert.ErrorIs(t, metrics.ops[1].err, domain.ErrIndexOutOfRange)
	assert.Equal(t, 1, metrics.builds)
}

func TestSequenceManagerReportsValidationOncePerChange(t *testing.T) {
	metrics := &fakeMetrics{}
	m := newTestManager(t, WithMetrics(metrics))
	insert := func(name string) {
		_, err := m.Insert(domain.PassengerStopEntry{DisplayName: name})
		require.NoError(t, err)
	}

	insert("A")
	insert("B")
	for i := 0; i < 5; i++ {
		m.Build(malpensaSpec)
		m.Validate(malpensaSpec)
	}
	assert.Equal(t, 1, metrics.validations, "B lacks a time")
	assert.Equal(t, 5, metrics.builds)

	// A rejected command leaves the list as it was.
	_, err := m.RemoveAt(9)
	require.Error(t, err)
	m.Build(malpensaSpec)
	assert.Equal(t, 1, metrics.validations)

	insert("C")
	m.Build(malpensaSpec)
	m.Build(malpensaSpec)
	assert.Equal(t, 3, metrics.validations)

	later := malpensaSpec
	later.PickupTime = "09:00"
	m.Build(later)
	m.Build(later)
	assert.Equal(t, 5, metrics.validations)
}
