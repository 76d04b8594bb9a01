package handlers

import (
	"fmt"
	"net/http"
	"passenger-itinerary-service/internal/api/dto"
	"passenger-itinerary-service/internal/domain"
	"passenger-itinerary-service/internal/ports"
	"passenger-itinerary-service/internal/services"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// DraftHandler drives the passenger sequence of open service drafts.
// Every mutating endpoint answers with the full draft view, so the client
// never has to recompute validation or the itinerary itself.
type DraftHandler struct {
	Store  *services.DraftStore
	Roster ports.PassengerRoster
	Log    logrus.FieldLogger
}

func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	companyID := strings.TrimSpace(req.CompanyID)
	if companyID == "" {
		writeError(w, r, http.StatusBadRequest, "company_id is required")
		return
	}
	if msg, ok := checkServiceSpec(req.Service); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	d, err := h.Store.Create(companyID, serviceSpecFromDTO(req.Service), nil)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	h.respond(w, r, d, http.StatusCreated)
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	h.respond(w, r, d, http.StatusOK)
}

func (h *DraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Discard(r.PathValue("draftID")); err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutService replaces the service's declared route. The passenger list is
// kept and re-resolved against the new route.
func (h *DraftHandler) PutService(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}

	var req dto.ServiceSpec
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if msg, ok := checkServiceSpec(req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	h.mutate(w, r, d, http.StatusOK, func(_ *services.SequenceManager, spec *domain.ServiceItinerarySpec) ([]int, error) {
		*spec = serviceSpecFromDTO(req)
		return nil, nil
	})
}

// AddPassenger appends a roster or ad-hoc passenger to the end of the
// pickup sequence.
func (h *DraftHandler) AddPassenger(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}

	var req dto.AddPassengerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	var (
		entry domain.PassengerStopEntry
		err   error
	)
	if passengerID := strings.TrimSpace(req.PassengerID); passengerID != "" {
		if h.Roster == nil {
			writeError(w, r, http.StatusServiceUnavailable, "passenger roster is not configured")
			return
		}
		p, lookupErr := h.Roster.GetPassenger(r.Context(), d.CompanyID, passengerID)
		if lookupErr != nil {
			writeServiceError(w, r, h.Log, lookupErr)
			return
		}
		entry, err = services.NewRosterEntry(p, entryOptions(req))
	} else {
		entry, err = services.NewAdHocEntry(req.DisplayName, entryOptions(req))
	}
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	h.mutate(w, r, d, http.StatusCreated, func(m *services.SequenceManager, _ *domain.ServiceItinerarySpec) ([]int, error) {
		_, err := m.Insert(entry)
		return nil, err
	})
}

func (h *DraftHandler) UpdatePassenger(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePassengerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	h.mutate(w, r, d, http.StatusOK, func(m *services.SequenceManager, _ *domain.ServiceItinerarySpec) ([]int, error) {
		_, err := m.Update(index, entryEdit(req))
		return nil, err
	})
}

func (h *DraftHandler) RemovePassenger(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, (*services.SequenceManager).RemoveAt)
}

func (h *DraftHandler) MoveUp(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, (*services.SequenceManager).MoveUp)
}

func (h *DraftHandler) MoveDown(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, (*services.SequenceManager).MoveDown)
}

func (h *DraftHandler) Validation(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}

	var res dto.ValidationResponse
	_ = d.Do(func(m *services.SequenceManager, spec *domain.ServiceItinerarySpec) error {
		errs := m.Validate(*spec)
		res = dto.ValidationResponse{
			Errors:   validationToDTO(errs),
			Blocking: len(errs) > 0,
		}
		return nil
	})

	writeJSON(w, r, http.StatusOK, res)
}

func (h *DraftHandler) Itinerary(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}

	var res dto.ItineraryResponse
	_ = d.Do(func(m *services.SequenceManager, spec *domain.ServiceItinerarySpec) error {
		res = itineraryToDTO(m.Build(*spec))
		return nil
	})

	writeJSON(w, r, http.StatusOK, res)
}

func (h *DraftHandler) reorder(
	w http.ResponseWriter,
	r *http.Request,
	op func(*services.SequenceManager, int) (services.IndexRemap, error),
) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	h.mutate(w, r, d, http.StatusOK, func(m *services.SequenceManager, _ *domain.ServiceItinerarySpec) ([]int, error) {
		remap, err := op(m, index)
		return remap.Mapping, err
	})
}

// mutate applies fn under the draft lock and answers with the resulting view.
func (h *DraftHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	d *services.Draft,
	status int,
	fn func(*services.SequenceManager, *domain.ServiceItinerarySpec) ([]int, error),
) {
	var res dto.DraftResponse
	err := d.Do(func(m *services.SequenceManager, spec *domain.ServiceItinerarySpec) error {
		remap, err := fn(m, spec)
		if err != nil {
			return err
		}
		res = draftView(d, m, *spec)
		res.Remap = remap
		return nil
	})
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, status, res)
}

func (h *DraftHandler) respond(w http.ResponseWriter, r *http.Request, d *services.Draft, status int) {
	var res dto.DraftResponse
	_ = d.Do(func(m *services.SequenceManager, spec *domain.ServiceItinerarySpec) error {
		res = draftView(d, m, *spec)
		return nil
	})
	writeJSON(w, r, status, res)
}

func (h *DraftHandler) draft(w http.ResponseWriter, r *http.Request) (*services.Draft, bool) {
	d, err := h.Store.Get(r.PathValue("draftID"))
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return nil, false
	}
	return d, true
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("index must be an integer, got %q", r.PathValue("index")))
		return 0, false
	}
	return index, true
}

func checkServiceSpec(s dto.ServiceSpec) (string, bool) {
	if !domain.IsBlank(s.PickupTime) && !domain.ValidClockTime(s.PickupTime) {
		return "service.pickup_time must be HH:MM", false
	}
	return "", true
}
