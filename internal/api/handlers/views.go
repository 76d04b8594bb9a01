package handlers

import (
	"passenger-itinerary-service/internal/api/dto"
	"passenger-itinerary-service/internal/domain"
	"passenger-itinerary-service/internal/services"
)

func serviceSpecFromDTO(s dto.ServiceSpec) domain.ServiceItinerarySpec {
	return domain.ServiceItinerarySpec{
		PickupAddress:      s.PickupAddress,
		PickupCity:         s.PickupCity,
		PickupTime:         s.PickupTime,
		DestinationAddress: s.DestinationAddress,
		DestinationCity:    s.DestinationCity,
	}
}

func serviceSpecToDTO(s domain.ServiceItinerarySpec) dto.ServiceSpec {
	return dto.ServiceSpec{
		PickupAddress:      s.PickupAddress,
		PickupCity:         s.PickupCity,
		PickupTime:         s.PickupTime,
		DestinationAddress: s.DestinationAddress,
		DestinationCity:    s.DestinationCity,
	}
}

func entryOptions(req dto.AddPassengerRequest) services.EntryOptions {
	return services.EntryOptions{
		PickupMode:               domain.AddressMode(req.PickupMode),
		PickupCustomAddress:      req.PickupCustomAddress,
		PickupCustomCity:         req.PickupCustomCity,
		PickupTime:               req.PickupTime,
		DestinationMode:          domain.AddressMode(req.DestinationMode),
		DestinationCustomAddress: req.DestinationCustomAddress,
		DestinationCustomCity:    req.DestinationCustomCity,
	}
}

func entryEdit(req dto.UpdatePassengerRequest) services.EntryEdit {
	edit := services.EntryEdit{
		DisplayName:              req.DisplayName,
		PickupCustomAddress:      req.PickupCustomAddress,
		PickupCustomCity:         req.PickupCustomCity,
		PickupTime:               req.PickupTime,
		PickupUsesServiceTime:    req.PickupUsesServiceTime,
		DestinationCustomAddress: req.DestinationCustomAddress,
		DestinationCustomCity:    req.DestinationCustomCity,
	}
	if req.PickupMode != nil {
		m := domain.AddressMode(*req.PickupMode)
		edit.PickupMode = &m
	}
	if req.DestinationMode != nil {
		m := domain.AddressMode(*req.DestinationMode)
		edit.DestinationMode = &m
	}
	return edit
}

func entriesToDTO(entries []domain.PassengerStopEntry) []dto.PassengerEntryResponse {
	out := make([]dto.PassengerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.PassengerEntryResponse{
			ID:                       e.ID,
			PassengerID:              e.PassengerID,
			DisplayName:              e.DisplayName,
			RegisteredAddress:        e.RegisteredAddress,
			RegisteredCity:           e.RegisteredCity,
			Order:                    e.Order,
			PickupMode:               string(e.PickupMode),
			PickupCustomAddress:      e.PickupCustomAddress,
			PickupCustomCity:         e.PickupCustomCity,
			PickupTime:               e.PickupTime,
			PickupUsesServiceTime:    e.PickupUsesServiceTime,
			DestinationMode:          string(e.DestinationMode),
			DestinationCustomAddress: e.DestinationCustomAddress,
			DestinationCustomCity:    e.DestinationCustomCity,
		})
	}
	return out
}

func validationToDTO(errs domain.ValidationErrors) []dto.ValidationErrorResponse {
	out := make([]dto.ValidationErrorResponse, 0, len(errs))
	for _, e := range errs {
		out = append(out, dto.ValidationErrorResponse{
			EntryID: e.EntryID,
			Field:   e.Field,
			Kind:    string(e.Kind),
		})
	}
	return out
}

func pointToDTO(p *domain.ResolvedPoint) *dto.PointResponse {
	if p == nil {
		return nil
	}
	return &dto.PointResponse{Address: p.Address, City: p.City, Time: p.Time}
}

func itineraryToDTO(it domain.Itinerary) dto.ItineraryResponse {
	res := dto.ItineraryResponse{
		Stops:  make([]dto.StopResponse, 0, len(it.Stops)),
		Errors: validationToDTO(it.Errors),
	}
	for _, s := range it.Stops {
		res.Stops = append(res.Stops, dto.StopResponse{
			Kind:        string(s.Kind),
			Label:       s.Label,
			EntryID:     s.EntryID,
			Order:       s.Order,
			Point:       pointToDTO(s.Point),
			Pickup:      pointToDTO(s.Pickup),
			Destination: pointToDTO(s.Destination),
		})
	}
	return res
}

// draftView renders the full state of a draft. It must run inside Draft.Do.
func draftView(d *services.Draft, m *services.SequenceManager, spec domain.ServiceItinerarySpec) dto.DraftResponse {
	it := m.Build(spec)
	return dto.DraftResponse{
		ID:         d.ID,
		CompanyID:  d.CompanyID,
		Service:    serviceSpecToDTO(spec),
		Passengers: entriesToDTO(m.Entries()),
		Errors:     validationToDTO(it.Errors),
		Itinerary:  itineraryToDTO(it),
	}
}
