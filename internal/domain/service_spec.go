package domain

// Declared start and end of a transport service (servizio).
// It is owned by the enclosing service form and is read-only to the engine.
type ServiceItinerarySpec struct {
	PickupAddress      string `json:"pickup_address"`
	PickupCity         string `json:"pickup_city"`
	PickupTime         string `json:"pickup_time"`
	DestinationAddress string `json:"destination_address"`
	DestinationCity    string `json:"destination_city"`
}

// Pickup returns the service's default pickup point, including its time.
func (s ServiceItinerarySpec) Pickup() ResolvedPoint {
	return ResolvedPoint{
		Address: NormalizeText(s.PickupAddress),
		City:    NormalizeText(s.PickupCity),
		Time:    NormalizeText(s.PickupTime),
	}
}

// Destination returns the service's default drop-off point.
func (s ServiceItinerarySpec) Destination() ResolvedPoint {
	return ResolvedPoint{
		Address: NormalizeText(s.DestinationAddress),
		City:    NormalizeText(s.DestinationCity),
	}
}
