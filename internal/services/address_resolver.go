package services

import (
	"passenger-itinerary-service/internal/domain"
)

// Resolve computes the concrete pickup and drop-off of one passenger entry.
//
// Pickup follows the entry's mode: the service pickup (with the service time),
// the registered address, or the custom address. The latter two carry the
// entry's own time, falling back to the service time only for the first stop
// when it opted into it. Destinations never carry a time.
//
// Modes are matched case-insensitively. An unknown mode resolves to an empty
// point; the validator reports it as invalid_mode.
//
// Resolve is pure: both arguments are taken by value and never modified, and
// identical inputs always produce identical output.
func Resolve(entry domain.PassengerStopEntry, spec domain.ServiceItinerarySpec) domain.ResolvedStop {
	return domain.ResolvedStop{
		Pickup:      resolvePickup(entry, spec),
		Destination: resolveDestination(entry, spec),
	}
}

func resolvePickup(entry domain.PassengerStopEntry, spec domain.ServiceItinerarySpec) domain.ResolvedPoint {
	mode, ok := entry.PickupMode.Canonical()
	if !ok {
		return domain.ResolvedPoint{}
	}
	switch mode {
	case domain.AddressModeRegistered:
		return point(entry.RegisteredAddress, entry.RegisteredCity, effectivePickupTime(entry, spec))
	case domain.AddressModeCustom:
		return point(entry.PickupCustomAddress, entry.PickupCustomCity, effectivePickupTime(entry, spec))
	default:
		return spec.Pickup()
	}
}

func resolveDestination(entry domain.PassengerStopEntry, spec domain.ServiceItinerarySpec) domain.ResolvedPoint {
	mode, ok := entry.DestinationMode.Canonical()
	if !ok {
		return domain.ResolvedPoint{}
	}
	switch mode {
	case domain.AddressModeRegistered:
		return point(entry.RegisteredAddress, entry.RegisteredCity, "")
	case domain.AddressModeCustom:
		return point(entry.DestinationCustomAddress, entry.DestinationCustomCity, "")
	default:
		return spec.Destination()
	}
}

// effectivePickupTime returns "" when no time can be resolved; the validator
// reports that case.
func effectivePickupTime(entry domain.PassengerStopEntry, spec domain.ServiceItinerarySpec) string {
	if !domain.IsBlank(entry.PickupTime) {
		return domain.NormalizeText(entry.PickupTime)
	}
	if entry.IsFirst() && entry.PickupUsesServiceTime {
		return domain.NormalizeText(spec.PickupTime)
	}
	return ""
}

func point(address, city, at string) domain.ResolvedPoint {
	return domain.ResolvedPoint{
		Address: domain.NormalizeText(address),
		City:    domain.NormalizeText(city),
		Time:    at,
	}
}
