package domain

// A concrete address/city pair with an optional "HH:MM" time.
// Time is empty when no time applies or none could be resolved.
type ResolvedPoint struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Time    string `json:"time,omitempty"`
}

// Pickup and drop-off resolved for one passenger entry.
type ResolvedStop struct {
	Pickup      ResolvedPoint `json:"pickup"`
	Destination ResolvedPoint `json:"destination"`
}

type StopKind string

const (
	StopKindStart     StopKind = "start"
	StopKindPassenger StopKind = "passenger"
	StopKindEnd       StopKind = "end"
)

const (
	StartStopLabel = "Partenza"
	EndStopLabel   = "Destinazione finale"
)

// Represents a single stop of a service itinerary.
//
// Start and end stops carry the service's own point in Point. A passenger stop
// is tagged with its owning entry and carries whichever of Pickup/Destination
// the passenger customized.
type Stop struct {
	Kind        StopKind       `json:"kind"`
	Label       string         `json:"label"`
	EntryID     string         `json:"entry_id,omitempty"`
	Order       int            `json:"order,omitempty"`
	Point       *ResolvedPoint `json:"point,omitempty"`
	Pickup      *ResolvedPoint `json:"pickup,omitempty"`
	Destination *ResolvedPoint `json:"destination,omitempty"`
}

// Represents the resolved route of a service: start, passenger deviations, end.
// It is immutable display data; Errors blocks submission when non-empty.
type Itinerary struct {
	Stops  []Stop           `json:"stops"`
	Errors ValidationErrors `json:"errors"`
}

// PassengerStops returns the intermediate stops only.
func (it Itinerary) PassengerStops() []Stop {
	out := make([]Stop, 0, len(it.Stops))
	for _, s := range it.Stops {
		if s.Kind == StopKindPassenger {
			out = append(out, s)
		}
	}
	return out
}
