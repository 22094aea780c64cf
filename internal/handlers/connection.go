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

// ConnectionHandler handles connection request and connection HTTP requests
type ConnectionHandler struct {
	connectionService *services.ConnectionService
	wsHub             *services.WSHub
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(connectionService *services.ConnectionService, wsHub *services.WSHub) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		wsHub:             wsHub,
	}
}

// SendRequest represents the request body for sending a connection request
type SendRequest struct {
	ReceiverID string  `json:"receiver_id"`
	Message    *string `json:"message,omitempty"`
}

// Send handles POST /api/v1/connections/requests
func (h *ConnectionHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ReceiverID == "" {
		respondError(w, "receiver_id is required", http.StatusBadRequest)
		return
	}

	request, err := h.connectionService.Send(ctx, userID, req.ReceiverID, req.Message)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("receiver_id", req.ReceiverID).Msg("Failed to send connection request")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	h.wsHub.NotifyRequestReceived(req.ReceiverID, request)

	respondJSON(w, http.StatusCreated, request)
}

// Accept handles POST /api/v1/connections/requests/{request_id}/accept
func (h *ConnectionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requestID := chi.URLParam(r, "request_id")

	conn, err := h.connectionService.Accept(ctx, requestID, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("request_id", requestID).Msg("Failed to accept request")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	// The requester is whichever side of the connection isn't the receiver.
	requesterID := conn.UserID
	if requesterID == userID {
		requesterID = conn.ConnectedUserID
	}
	h.wsHub.NotifyRequestResolved(requesterID, requestID, models.RequestAccepted)

	respondJSON(w, http.StatusOK, conn)
}

// Decline handles POST /api/v1/connections/requests/{request_id}/decline
func (h *ConnectionHandler) Decline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requestID := chi.URLParam(r, "request_id")

	if err := h.connectionService.Decline(ctx, requestID, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("request_id", requestID).Msg("Failed to decline request")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Withdraw handles DELETE /api/v1/connections/requests/{request_id}
func (h *ConnectionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requestID := chi.URLParam(r, "request_id")

	if err := h.connectionService.Withdraw(ctx, requestID, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("request_id", requestID).Msg("Failed to withdraw request")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListConnections handles GET /api/v1/connections
func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	conns, err := h.connectionService.ListConnections(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list connections")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"connections": conns})
}

// ListIncoming handles GET /api/v1/connections/requests/incoming
func (h *ConnectionHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	reqs, err := h.connectionService.ListIncoming(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"requests": reqs})
}

// ListOutgoing handles GET /api/v1/connections/requests/outgoing
func (h *ConnectionHandler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	reqs, err := h.connectionService.ListOutgoing(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"requests": reqs})
}

// Status handles GET /api/v1/connections/status/{user_id}
func (h *ConnectionHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	otherID := chi.URLParam(r, "user_id")

	status, err := h.connectionService.StatusBetween(ctx, userID, otherID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": status})
}

// Disconnect handles DELETE /api/v1/connections/{user_id}
func (h *ConnectionHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	otherID := chi.URLParam(r, "user_id")

	if err := h.connectionService.Disconnect(ctx, userID, otherID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("other_id", otherID).Msg("Failed to disconnect")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	h.wsHub.NotifyConnectionRemoved(otherID, userID)

	w.WriteHeader(http.StatusNoContent)
}
