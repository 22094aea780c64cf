package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"crewlink-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a record-sync event pushed to an open client
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections keyed by crew member ID and pushes
// record-sync events so open clients refresh without polling.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register registers a connection for a crew member, replacing any existing
// connection from another device.
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a crew member's connection
func (h *WSHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[userID]; ok {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a crew member has an open connection
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// SendToUser sends a message to a specific crew member
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	conn, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// NotifyRequestReceived tells the receiver a new connection request arrived
func (h *WSHub) NotifyRequestReceived(receiverID string, req *models.ConnectionRequest) {
	h.notify(receiverID, WSMessage{Type: "request_received", Data: req})
}

// NotifyRequestResolved tells the requester their request was accepted or
// declined.
func (h *WSHub) NotifyRequestResolved(requesterID string, requestID string, status models.RequestStatus) {
	h.notify(requesterID, WSMessage{
		Type: "request_resolved",
		Data: map[string]interface{}{
			"request_id": requestID,
			"status":     status,
		},
	})
}

// NotifyConnectionRemoved tells the other party the connection was removed
func (h *WSHub) NotifyConnectionRemoved(userID, removedByID string) {
	h.notify(userID, WSMessage{
		Type: "connection_removed",
		Data: map[string]interface{}{"removed_by": removedByID},
	})
}

// NotifyPortDeclared tells online shipmates a new docking link exists so they
// can refresh their visibility view.
func (h *WSHub) NotifyPortDeclared(userIDs []string, decl *models.PortDeclaration) {
	for _, id := range userIDs {
		h.notify(id, WSMessage{Type: "port_declared", Data: decl})
	}
}

// NotifyCheckInDue prompts a freshly connected client for today's check-in
func (h *WSHub) NotifyCheckInDue(userID string) {
	h.notify(userID, WSMessage{Type: "check_in_due"})
}

func (h *WSHub) notify(userID string, message WSMessage) {
	if !h.IsOnline(userID) {
		return
	}
	if err := h.SendToUser(userID, message); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("type", message.Type).Msg("Failed to push sync event")
	}
}
