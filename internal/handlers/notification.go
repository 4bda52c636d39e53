package handlers

import (
	"encoding/json"
	"net/http"

	"daily-vibes-backend/internal/middleware"
	"daily-vibes-backend/internal/models"
	"daily-vibes-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// NotificationHandler handles inbox and device registration HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// RegisterDeviceRequest is the request body for POST /api/notifications/register
type RegisterDeviceRequest struct {
	DeviceToken string `json:"deviceToken"`
	Platform    string `json:"platform"`
}

// RegisterDevice handles POST /api/notifications/register
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	var req RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	device := &models.Device{Token: req.DeviceToken, Platform: req.Platform}
	if err := h.notificationService.RegisterDevice(r.Context(), username, device); err != nil {
		respondError(w, err)
		return
	}

	log.Info().Str("username", username).Str("platform", req.Platform).Msg("Device registered")
	respondMessage(w, "Device token registered", nil)
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	inbox, err := h.notificationService.List(r.Context(), username)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, inbox)
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.notificationService.MarkRead(r.Context(), username, id); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "", nil)
}

// Clear handles POST /api/notifications/read — "mark all read" by deletion
func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	if err := h.notificationService.Clear(r.Context(), username); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Benachrichtigungen gelöscht", nil)
}
