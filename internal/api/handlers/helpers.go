package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"passenger-itinerary-service/internal/domain"
	"passenger-itinerary-service/internal/platform/obs"

	"github.com/sirupsen/logrus"
)

var errBadBody = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errBadBody
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errBadBody
	}
	return nil
}

// statusFor maps engine errors onto HTTP statuses. Anything unrecognized is
// an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadBody),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrServiceTimeNotEligible),
		errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrDuplicateEntry),
		errors.Is(err, domain.ErrInvalidPassenger):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDraftNotFound),
		errors.Is(err, domain.ErrPassengerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTooManyDrafts):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithFields(logrus.Fields{
			"req_id": obs.RequestID(r.Context()),
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("request failed")
		writeError(w, r, status, "internal server error")
		return
	}
	writeError(w, r, status, err.Error())
}
