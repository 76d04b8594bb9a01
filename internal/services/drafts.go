package services

import (
	"context"
	"fmt"
	"passenger-itinerary-service/internal/domain"
	"passenger-itinerary-service/internal/ports"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Draft is the in-memory state of one open service form: the service's
// declared route and the passenger sequence being edited. Nothing in a draft
// is persisted; discarding it is the cancellation path.
type Draft struct {
	ID        string
	CompanyID string

	mu      sync.Mutex
	spec    domain.ServiceItinerarySpec
	manager *SequenceManager

	// Guarded by the store's mutex.
	lastUsed time.Time
}

// Do runs fn with exclusive access to the draft's sequence and service spec.
func (d *Draft) Do(fn func(m *SequenceManager, spec *domain.ServiceItinerarySpec) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.manager, &d.spec)
}

// DraftStore keeps the open drafts of the running process. A user leaving
// the form never tells the server, so drafts idle longer than the idle TTL
// are dropped by Sweep.
type DraftStore struct {
	mu      sync.Mutex
	drafts  map[string]*Draft
	log     logrus.FieldLogger
	metrics ports.EngineMetrics

	idleTTL   time.Duration
	maxDrafts int
	now       func() time.Time
}

type DraftStoreOption func(*DraftStore)

// WithIdleTTL sets how long a draft may go unused before Sweep drops it.
// Zero keeps drafts until they are discarded.
func WithIdleTTL(ttl time.Duration) DraftStoreOption {
	return func(s *DraftStore) { s.idleTTL = ttl }
}

// WithMaxDrafts caps the number of open drafts; zero means no cap.
func WithMaxDrafts(n int) DraftStoreOption {
	return func(s *DraftStore) { s.maxDrafts = n }
}

func WithClock(now func() time.Time) DraftStoreOption {
	return func(s *DraftStore) { s.now = now }
}

func NewDraftStore(log logrus.FieldLogger, metrics ports.EngineMetrics, opts ...DraftStoreOption) *DraftStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &DraftStore{
		drafts:  make(map[string]*Draft),
		log:     log,
		metrics: metrics,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a draft for a service, optionally preloaded with the
// passengers of a service being edited.
func (s *DraftStore) Create(
	companyID string,
	spec domain.ServiceItinerarySpec,
	entries []domain.PassengerStopEntry,
) (*Draft, error) {
	id := uuid.NewString()
	log := s.log.WithField("draft_id", id)

	opts := []Option{WithLogger(log)}
	if s.metrics != nil {
		opts = append(opts, WithMetrics(s.metrics))
	}
	manager, err := NewSequenceManager(entries, opts...)
	if err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}

	d := &Draft{
		ID:        id,
		CompanyID: companyID,
		spec:      spec,
		manager:   manager,
	}

	s.mu.Lock()
	if s.maxDrafts > 0 && len(s.drafts) >= s.maxDrafts {
		s.mu.Unlock()
		return nil, fmt.Errorf("create draft: %d open: %w", s.maxDrafts, domain.ErrTooManyDrafts)
	}
	d.lastUsed = s.now()
	s.drafts[id] = d
	n := len(s.drafts)
	s.mu.Unlock()

	s.observe(n)
	log.WithField("passengers", manager.Len()).Info("draft opened")
	return d, nil
}

func (s *DraftStore) Get(id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("get draft %q: %w", id, domain.ErrDraftNotFound)
	}
	d.lastUsed = s.now()
	return d, nil
}

// Discard drops a draft and everything edited in it.
func (s *DraftStore) Discard(id string) error {
	s.mu.Lock()
	if _, ok := s.drafts[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("discard draft %q: %w", id, domain.ErrDraftNotFound)
	}
	delete(s.drafts, id)
	n := len(s.drafts)
	s.mu.Unlock()

	s.observe(n)
	s.log.WithField("draft_id", id).Info("draft discarded")
	return nil
}

func (s *DraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// Sweep drops the drafts that have not been fetched for longer than the idle
// TTL and returns how many it dropped. Drafts busy in Do are left alone.
func (s *DraftStore) Sweep() int {
	if s.idleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	cutoff := s.now().Add(-s.idleTTL)
	var expired []string
	for id, d := range s.drafts {
		if !d.lastUsed.Before(cutoff) || !d.mu.TryLock() {
			continue
		}
		delete(s.drafts, id)
		d.mu.Unlock()
		expired = append(expired, id)
	}
	n := len(s.drafts)
	s.mu.Unlock()

	if len(expired) == 0 {
		return 0
	}
	s.observe(n)
	for _, id := range expired {
		s.log.WithField("draft_id", id).Info("draft expired")
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *DraftStore) RunSweeper(ctx context.Context, every time.Duration) {
	if s.idleTTL <= 0 || every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *DraftStore) observe(n int) {
	if s.metrics != nil {
		s.metrics.ActiveDrafts(n)
	}
}
