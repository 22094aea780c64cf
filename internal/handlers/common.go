package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"crewlink-backend/internal/models"
	"crewlink-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// statusForError maps engine validation errors to HTTP status codes. Anything
// unmatched is an infrastructure failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidTarget),
		errors.Is(err, services.ErrInvalidDeclaration),
		errors.Is(err, services.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrAlreadyConnected),
		errors.Is(err, services.ErrRequestAlreadyPending),
		errors.Is(err, services.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// todayFromRequest resolves the "date" query parameter, defaulting to the
// server's current calendar date. Clients send their device-local date so
// "today" follows the ship's clock, not the server's.
func todayFromRequest(r *http.Request) (models.Date, error) {
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		return models.ParseDate(dateStr)
	}
	return models.DateOf(timeNow()), nil
}
