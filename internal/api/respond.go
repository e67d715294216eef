package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/techjobs/backend/internal/logger"
	"github.com/techjobs/backend/internal/services"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

type payload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, p payload) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(p)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, payload{Success: true, Message: "OK", Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, payload{Success: false, Message: message})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Everything except internal failures is a recoverable, user-facing
// rejection.
func writeServiceError(w http.ResponseWriter, err error) {

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrNotEmployer), errors.Is(err, services.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrJobNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, services.ErrEmptyContent), errors.Is(err, services.ErrInvalidUserType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrs):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeApi).Errorf("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}
