package handlers

import (
	"net/http"

	"daily-vibes-backend/internal/middleware"
	"daily-vibes-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for MVP
	},
}

// WebSocketHandler accepts live-delivery connections. Clients that stay
// connected get freshly appended notifications hinted to them immediately;
// everything else goes through the inbox endpoints.
type WebSocketHandler struct {
	hub         *services.WSHub
	userService *services.UserService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, userService *services.UserService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		userService: userService,
	}
}

// HandleWebSocket handles GET /ws?token=...
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	identity, err := middleware.ValidateWebSocketToken(token, h.userService)
	if err != nil {
		respondErrorMessage(w, "Ungültiger Token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.hub.Register(identity.Username, conn)
	defer h.hub.Unregister(identity.Username, conn)

	log.Info().Str("username", identity.Username).Msg("WebSocket connection established")

	// The connection is receive-only for the client; we just hold it open
	// until the peer goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("username", identity.Username).Msg("WebSocket error")
			}
			break
		}
	}
}
