package api

import (
	"net/http"
	"passenger-itinerary-service/internal/api/handlers"
	"passenger-itinerary-service/internal/ports"
	"passenger-itinerary-service/internal/services"

	"github.com/sirupsen/logrus"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// roster and metrics may be nil; the routes depending on them then answer 503
// or are not mounted.
func NewRouter(
	store *services.DraftStore,
	roster ports.PassengerRoster,
	metrics http.Handler,
	log logrus.FieldLogger,
) http.Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "http")

	mux := http.NewServeMux()

	rosterHandler := &handlers.RosterHandler{Roster: roster, Log: log}
	draftHandler := &handlers.DraftHandler{
		Store:  store,
		Roster: roster,
		Log:    log,
	}

	mux.HandleFunc("GET /health", handlers.Health)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	mux.HandleFunc("GET /companies/{companyID}/passengers", rosterHandler.List)

	mux.HandleFunc("POST /drafts", draftHandler.Create)
	mux.HandleFunc("GET /drafts/{draftID}", draftHandler.Get)
	mux.HandleFunc("DELETE /drafts/{draftID}", draftHandler.Discard)
	mux.HandleFunc("PUT /drafts/{draftID}/service", draftHandler.PutService)
	mux.HandleFunc("GET /drafts/{draftID}/validation", draftHandler.Validation)
	mux.HandleFunc("GET /drafts/{draftID}/itinerary", draftHandler.Itinerary)

	mux.HandleFunc("POST /drafts/{draftID}/passengers", draftHandler.AddPassenger)
	mux.HandleFunc("PATCH /drafts/{draftID}/passengers/{index}", draftHandler.UpdatePassenger)
	mux.HandleFunc("DELETE /drafts/{draftID}/passengers/{index}", draftHandler.RemovePassenger)
	mux.HandleFunc("POST /drafts/{draftID}/passengers/{index}/move-up", draftHandler.MoveUp)
	mux.HandleFunc("POST /drafts/{draftID}/passengers/{index}/move-down", draftHandler.MoveDown)

	return requestIDMiddleware(loggingMiddleware(log, mux))
}
