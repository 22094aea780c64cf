package handlers

import (
	"encoding/json"
	"net/http"

	"crewlink-backend/internal/middleware"
	"crewlink-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AssignmentHandler handles cruise assignment HTTP requests
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// Create handles POST /api/v1/assignments
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	today, err := todayFromRequest(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	assignment, err := h.assignmentService.Create(ctx, userID, req, today)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create assignment")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("assignment_id", assignment.ID).
		Str("ship_id", assignment.ShipID).
		Msg("Assignment created")

	respondJSON(w, http.StatusCreated, assignment)
}

// List handles GET /api/v1/assignments
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	today, err := todayFromRequest(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	assignments, err := h.assignmentService.ListByUser(ctx, userID, today)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list assignments")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"assignments": assignments})
}

// Update handles PUT /api/v1/assignments/{assignment_id}
func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	assignmentID := chi.URLParam(r, "assignment_id")

	var req services.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	today, err := todayFromRequest(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	assignment, err := h.assignmentService.Update(ctx, assignmentID, userID, req, today)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("assignment_id", assignmentID).Msg("Failed to update assignment")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, assignment)
}

// Cancel handles POST /api/v1/assignments/{assignment_id}/cancel
func (h *AssignmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	assignmentID := chi.URLParam(r, "assignment_id")

	assignment, err := h.assignmentService.Cancel(ctx, assignmentID, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("assignment_id", assignmentID).Msg("Failed to cancel assignment")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, assignment)
}

// Delete handles DELETE /api/v1/assignments/{assignment_id}
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	assignmentID := chi.URLParam(r, "assignment_id")

	if err := h.assignmentService.Delete(ctx, assignmentID, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("assignment_id", assignmentID).Msg("Failed to delete assignment")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
