package services

import (
	"passenger-itinerary-service/internal/domain"
	"passenger-itinerary-service/internal/ports"
	"time"

	"github.com/sirupsen/logrus"
)

// ItineraryBuilder composes resolved passenger stops into a renderable route.
type ItineraryBuilder struct {
	log     logrus.FieldLogger
	metrics ports.EngineMetrics
}

// NewItineraryBuilder returns a builder; log and metrics may be nil.
func NewItineraryBuilder(log logrus.FieldLogger, metrics ports.EngineMetrics) *ItineraryBuilder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ItineraryBuilder{
		log:     log.WithField("component", "itinerary_builder"),
		metrics: metrics,
	}
}

// Build validates the list and, unless the list is structurally corrupt,
// returns the route: the service start, one stop per passenger deviating
// from the defaults (in pickup order), and the service end.
//
// On a fatal validation result the itinerary has no stops and carries only
// the fatal error.
func (b *ItineraryBuilder) Build(
	entries []domain.PassengerStopEntry,
	spec domain.ServiceItinerarySpec,
) domain.Itinerary {
	start := time.Now()

	it := BuildItinerary(entries, spec)
	if it.Errors.Fatal() {
		b.log.WithField("kinds", it.Errors.Kinds()).Error("itinerary build aborted: passenger order bookkeeping is corrupt")
	}

	if b.metrics != nil {
		b.metrics.BuildObserve(time.Since(start))
	}

	return it
}

// BuildItinerary is the side-effect free core of ItineraryBuilder.Build.
func BuildItinerary(entries []domain.PassengerStopEntry, spec domain.ServiceItinerarySpec) domain.Itinerary {
	errs := Validate(entries, spec)
	if errs.Fatal() {
		return domain.Itinerary{Errors: errs}
	}

	sorted := sortedByOrder(entries)
	stops := make([]domain.Stop, 0, len(sorted)+2)

	startPoint := spec.Pickup()
	stops = append(stops, domain.Stop{
		Kind:  domain.StopKindStart,
		Label: domain.StartStopLabel,
		Point: &startPoint,
	})

	for _, e := range sorted {
		if stop, ok := passengerStop(e, spec); ok {
			stops = append(stops, stop)
		}
	}

	endPoint := spec.Destination()
	stops = append(stops, domain.Stop{
		Kind:  domain.StopKindEnd,
		Label: domain.EndStopLabel,
		Point: &endPoint,
	})

	return domain.Itinerary{Stops: stops, Errors: errs}
}

// passengerStop returns the intermediate stop for e, if e deviates from the
// service defaults with a usable address on at least one end. Entries riding
// the default route on both ends produce no stop.
func passengerStop(e domain.PassengerStopEntry, spec domain.ServiceItinerarySpec) (domain.Stop, bool) {
	if e.UsesDefaults() {
		return domain.Stop{}, false
	}
	resolved := Resolve(e, spec)

	stop := domain.Stop{
		Kind:    domain.StopKindPassenger,
		Label:   domain.NormalizeText(e.DisplayName),
		EntryID: e.ID,
		Order:   e.Order,
	}

	if deviates(e.PickupMode) && !domain.IsBlank(resolved.Pickup.Address) {
		p := resolved.Pickup
		stop.Pickup = &p
	}
	if deviates(e.DestinationMode) && !domain.IsBlank(resolved.Destination.Address) {
		d := resolved.Destination
		stop.Destination = &d
	}

	return stop, stop.Pickup != nil || stop.Destination != nil
}

func deviates(m domain.AddressMode) bool {
	c, ok := m.Canonical()
	return ok && c != domain.AddressModeService
}
