package metrics

import (
	"errors"
	"net/http"
	"passenger-itinerary-service/internal/domain"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes the engine's counters on a private registry.
// It implements ports.EngineMetrics.
type Collector struct {
	reg *prometheus.Registry

	SequenceOps     *prometheus.CounterVec // op, result
	ValidationErrs  *prometheus.CounterVec // kind
	BuildDuration   prometheus.Histogram
	Drafts          prometheus.Gauge
	RosterCacheReqs *prometheus.CounterVec // result: hit|miss
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		SequenceOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itinerary_sequence_operations_total",
			Help: "Passenger sequence commands by operation and outcome.",
		}, []string{"op", "result"}),
		ValidationErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itinerary_validation_errors_total",
			Help: "Validation errors of each distinct draft state, by kind.",
		}, []string{"kind"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "itinerary_build_duration_seconds",
			Help:    "Duration of itinerary builds.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 15),
		}),
		Drafts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "itinerary_active_drafts",
			Help: "Number of open service drafts.",
		}),
		RosterCacheReqs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itinerary_roster_cache_requests_total",
			Help: "Roster cache lookups by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(c.SequenceOps, c.ValidationErrs, c.BuildDuration, c.Drafts, c.RosterCacheReqs)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

func (c *Collector) SequenceOperation(op string, err error) {
	c.SequenceOps.WithLabelValues(op, resultLabel(err)).Inc()
}

func (c *Collector) ValidationErrors(errs domain.ValidationErrors) {
	for _, e := range errs {
		c.ValidationErrs.WithLabelValues(string(e.Kind)).Inc()
	}
}

func (c *Collector) BuildObserve(d time.Duration) { c.BuildDuration.Observe(d.Seconds()) }

func (c *Collector) ActiveDrafts(n int) { c.Drafts.Set(float64(n)) }

func (c *Collector) RosterCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.RosterCacheReqs.WithLabelValues(result).Inc()
}

// resultLabel keeps label cardinality bounded to a handful of known errors.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return "index_out_of_range"
	case errors.Is(err, domain.ErrDuplicateEntry):
		return "duplicate_entry"
	case errors.Is(err, domain.ErrServiceTimeNotEligible):
		return "service_time_not_eligible"
	case errors.Is(err, domain.ErrInvalidMode):
		return "invalid_mode"
	default:
		return "error"
	}
}
