package handlers

import (
	"encoding/json"
	"net/http"

	"crewlink-backend/internal/middleware"
	"crewlink-backend/internal/models"
	"crewlink-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// CheckInHandler handles daily ship check-in HTTP requests
type CheckInHandler struct {
	checkInService *services.CheckInService
}

// NewCheckInHandler creates a new check-in handler
func NewCheckInHandler(checkInService *services.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInService: checkInService}
}

// ConfirmRequest represents the request body for confirming today's ship
type ConfirmRequest struct {
	ShipID string `json:"ship_id"`
	Date   string `json:"date"`
}

// Status handles GET /api/v1/checkin
func (h *CheckInHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	today, err := todayFromRequest(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	prompt, err := h.checkInService.ShouldPrompt(ctx, userID, today)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":   today,
		"prompt": prompt,
	})
}

// Confirm handles POST /api/v1/checkin
func (h *CheckInHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ShipID == "" {
		respondError(w, "ship_id is required", http.StatusBadRequest)
		return
	}

	today := models.DateOf(timeNow())
	if req.Date != "" {
		parsed, err := models.ParseDate(req.Date)
		if err != nil {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		today = parsed
	}

	checkIn, err := h.checkInService.Confirm(ctx, userID, req.ShipID, today)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("ship_id", req.ShipID).Msg("Failed to confirm check-in")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("ship_id", req.ShipID).
		Str("date", checkIn.Date.String()).
		Msg("Ship confirmed for today")

	respondJSON(w, http.StatusOK, checkIn)
}
