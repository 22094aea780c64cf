package handlers

import (
	"net/http"

	"crewlink-backend/internal/middleware"
	"crewlink-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// VisibilityHandler handles "who can I see today" HTTP requests
type VisibilityHandler struct {
	visibilityService *services.VisibilityService
	connectionService *services.ConnectionService
}

// NewVisibilityHandler creates a new visibility handler
func NewVisibilityHandler(visibilityService *services.VisibilityService, connectionService *services.ConnectionService) *VisibilityHandler {
	return &VisibilityHandler{
		visibilityService: visibilityService,
		connectionService: connectionService,
	}
}

// visibleMember pairs a crew member with the viewer's relationship state so
// the client knows which action button to render.
type visibleMember struct {
	Member     interface{}         `json:"member"`
	PairStatus services.PairStatus `json:"pair_status"`
}

// List handles GET /api/v1/visibility?date=YYYY-MM-DD
func (h *VisibilityHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	today, err := todayFromRequest(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	members, err := h.visibilityService.VisibleCrew(ctx, userID, today)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute visibility")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	results := make([]visibleMember, 0, len(members))
	for _, member := range members {
		status, err := h.connectionService.StatusBetween(ctx, userID, member.ID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("other_id", member.ID).Msg("Failed to derive pair status")
			respondError(w, err.Error(), statusForError(err))
			return
		}
		results = append(results, visibleMember{Member: member, PairStatus: status})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    today,
		"visible": results,
	})
}
