package handlers

import (
	"encoding/json"
	"net/http"

	"crewlink-backend/internal/middleware"
	"crewlink-backend/internal/models"
	"crewlink-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PortHandler handles port declaration HTTP requests
type PortHandler struct {
	portLinkService *services.PortLinkService
	userService     *services.UserService
	wsHub           *services.WSHub
}

// NewPortHandler creates a new port declaration handler
func NewPortHandler(portLinkService *services.PortLinkService, userService *services.UserService, wsHub *services.WSHub) *PortHandler {
	return &PortHandler{
		portLinkService: portLinkService,
		userService:     userService,
		wsHub:           wsHub,
	}
}

// DeclareRequest represents the request body for a port declaration
type DeclareRequest struct {
	DockedWithShipID string `json:"docked_with_ship_id"`
	PortName         string `json:"port_name"`
	Date             string `json:"date"`
}

// Declare handles POST /api/v1/ports/declarations
func (h *PortHandler) Declare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req DeclareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.DockedWithShipID == "" || req.PortName == "" || req.Date == "" {
		respondError(w, "docked_with_ship_id, port_name and date are required", http.StatusBadRequest)
		return
	}

	member, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	if member.CurrentShipID == "" {
		respondError(w, "set your current ship before declaring a docking", http.StatusBadRequest)
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	decl, err := h.portLinkService.Declare(ctx, userID, member.CurrentShipID, req.DockedWithShipID, req.PortName, date)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to declare docking")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	// Nudge online shipmates to refresh their visibility view.
	if shipmates, err := h.userService.ListShipmates(ctx, member.CurrentShipID); err == nil {
		var ids []string
		for _, mate := range shipmates {
			if mate.ID != userID {
				ids = append(ids, mate.ID)
			}
		}
		h.wsHub.NotifyPortDeclared(ids, decl)
	}

	respondJSON(w, http.StatusCreated, decl)
}

// List handles GET /api/v1/ports/declarations
func (h *PortHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	member, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	if member.CurrentShipID == "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{"declarations": []interface{}{}})
		return
	}

	today, err := todayFromRequest(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	decls, err := h.portLinkService.ActiveDeclarations(ctx, member.CurrentShipID, today)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list declarations")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"declarations": decls})
}

// Withdraw handles DELETE /api/v1/ports/declarations/{declaration_id}
func (h *PortHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	declarationID := chi.URLParam(r, "declaration_id")

	if err := h.portLinkService.Withdraw(ctx, declarationID, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("declaration_id", declarationID).Msg("Failed to withdraw declaration")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
