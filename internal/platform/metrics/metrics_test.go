package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"passenger-itinerary-service/internal/domain"
	"passenger-itinerary-service/internal/ports"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.EngineMetrics = (*Collector)(nil)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()

	c.SequenceOperation("insert", nil)
	c.SequenceOperation("insert", nil)
	c.SequenceOperation("remove", fmt.Errorf("remove entry: %w", domain.ErrIndexOutOfRange))
	c.ValidationErrors(domain.ValidationErrors{
		{EntryID: "a", Kind: domain.KindRequiresExplicitTime},
		{EntryID: "b", Kind: domain.KindRequiresExplicitTime},
		{EntryID: "b", Kind: domain.KindEmptyDisplayName},
	})
	c.BuildObserve(2 * time.Millisecond)
	c.ActiveDrafts(3)
	c.RosterCacheLookup(true)
	c.RosterCacheLookup(false)
	c.RosterCacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.SequenceOps.WithLabelValues("insert", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SequenceOps.WithLabelValues("remove", "index_out_of_range")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ValidationErrs.WithLabelValues("requires_explicit_time")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ValidationErrs.WithLabelValues("empty_display_name")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.Drafts))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RosterCacheReqs.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.RosterCacheReqs.WithLabelValues("miss")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.BuildDuration))
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector()
	c.ActiveDrafts(1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "itinerary_active_drafts 1")
}
