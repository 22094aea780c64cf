package handlers

import (
	"net/http"

	"crewlink-backend/internal/models"
	"crewlink-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // mobile clients connect from app webviews
	},
}

// WebSocketHandler handles WebSocket sync connections
type WebSocketHandler struct {
	hub            *services.WSHub
	userService    *services.UserService
	checkInService *services.CheckInService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, userService *services.UserService, checkInService *services.CheckInService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		userService:    userService,
		checkInService: checkInService,
	}
}

// HandleWebSocket handles GET /ws?token=...
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	userID, err := h.userService.ValidateJWT(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID)

	// A client connecting after midnight may owe a check-in for the new day.
	today := models.DateOf(timeNow())
	if prompt, err := h.checkInService.ShouldPrompt(r.Context(), userID, today); err == nil && prompt {
		h.hub.NotifyCheckInDue(userID)
	}

	// Clients only receive sync events; drain reads until the peer closes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("user_id", userID).Msg("WebSocket closed unexpectedly")
			}
			return
		}
	}
}
