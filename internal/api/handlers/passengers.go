package handlers

import (
	"net/http"
	"passenger-itinerary-service/internal/api/dto"
	"passenger-itinerary-service/internal/ports"
	"passenger-itinerary-service/internal/services"
	"strings"

	"github.com/sirupsen/logrus"
)

// RosterHandler exposes the read-only company passenger roster.
type RosterHandler struct {
	Roster ports.PassengerRoster
	Log    logrus.FieldLogger
}

func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Roster == nil {
		writeError(w, r, http.StatusServiceUnavailable, "passenger roster is not configured")
		return
	}

	companyID := strings.TrimSpace(r.PathValue("companyID"))
	if companyID == "" {
		writeError(w, r, http.StatusBadRequest, "company id is required")
		return
	}

	passengers, err := h.Roster.ListPassengers(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	res := dto.ListPassengersResponse{
		CompanyID:  companyID,
		Passengers: make([]dto.RosterPassengerResponse, 0, len(passengers)),
	}
	for _, p := range passengers {
		res.Passengers = append(res.Passengers, dto.RosterPassengerResponse{
			ID:          p.ID,
			DisplayName: services.RosterDisplayName(p),
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			Address:     p.Address,
			City:        p.City,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
