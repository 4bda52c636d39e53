package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"daily-vibes-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification,omitempty"`
	Message      string               `json:"message,omitempty"`
}

// wsConn is the subset of *websocket.Conn the hub drives
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// WSHub tracks connected clients so freshly appended notifications can be
// hinted to them live. A missed hint is harmless: the inbox is the source of
// truth and clients re-fetch it on connect.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]wsConn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]wsConn),
	}
}

// Register registers a new WebSocket connection for a user
func (h *WSHub) Register(username string, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if any
	if existing, ok := h.connections[username]; ok {
		existing.Close()
	}
	h.connections[username] = conn

	log.Info().Str("username", username).Msg("WebSocket connection registered")
}

// Unregister removes a user's WebSocket connection. The caller passes the
// connection it owns: a handler whose connection was already replaced by a
// reconnect must not tear down the replacement.
func (h *WSHub) Unregister(username string, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.connections[username]
	if !ok || current != conn {
		return
	}
	current.Close()
	delete(h.connections, username)
	log.Info().Str("username", username).Msg("WebSocket connection unregistered")
}

// IsOnline checks if a user has a live connection
func (h *WSHub) IsOnline(username string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[username]
	return ok
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(username string, message WSMessage) error {
	h.mu.RLock()
	conn, ok := h.connections[username]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", username)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(username, conn)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// HintNotification pushes a freshly stored notification to the recipient if
// they are connected
func (h *WSHub) HintNotification(n *models.Notification) {
	if !h.IsOnline(n.Recipient) {
		return
	}
	err := h.SendToUser(n.Recipient, WSMessage{Type: "notification", Notification: n})
	if err != nil {
		log.Debug().
			Err(err).
			Str("recipient", n.Recipient).
			Msg("Failed to hint notification over WebSocket")
	}
}
