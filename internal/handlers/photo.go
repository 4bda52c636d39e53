package handlers

import (
	"encoding/json"
	"net/http"

	"daily-vibes-backend/internal/middleware"
	"daily-vibes-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PhotoHandler handles photo and engagement HTTP requests
type PhotoHandler struct {
	engagement *services.EngagementService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(engagement *services.EngagementService) *PhotoHandler {
	return &PhotoHandler{
		engagement: engagement,
	}
}

// UploadRequest is the request body for POST /api/photos/upload
type UploadRequest struct {
	ImageData string `json:"imageData"`
	Caption   string `json:"caption"`
}

// Upload handles POST /api/photos/upload
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	result, err := h.engagement.UploadPhoto(r.Context(), username, req.ImageData, req.Caption)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to upload photo")
		respondError(w, err)
		return
	}

	log.Info().
		Str("username", username).
		Str("photo_id", result.Photo.ID).
		Str("date", result.Photo.VibeDate).
		Msg("Photo uploaded")

	respondMessage(w, "Foto hochgeladen", result)
}

// TodayFeed handles GET /api/photos/today
func (h *PhotoHandler) TodayFeed(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	photos, err := h.engagement.TodayFeed(r.Context(), username)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, map[string]any{"photos": photos})
}

// MyToday handles GET /api/photos/me/today
func (h *PhotoHandler) MyToday(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	photos, err := h.engagement.MyToday(r.Context(), username)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, map[string]any{"photos": photos})
}

// Delete handles DELETE /api/photos/{photo_id}
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	photoID := chi.URLParam(r, "photo_id")

	if photoID == "" {
		respondErrorMessage(w, "photo_id erforderlich", http.StatusBadRequest)
		return
	}

	if err := h.engagement.DeletePhoto(r.Context(), username, photoID); err != nil {
		respondError(w, err)
		return
	}

	log.Info().Str("username", username).Str("photo_id", photoID).Msg("Photo deleted")
	respondMessage(w, "Foto gelöscht", nil)
}

// Memories handles GET /api/photos/memories
func (h *PhotoHandler) Memories(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	photos, err := h.engagement.Memories(r.Context(), username, username)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, map[string]any{"photos": photos})
}

// MemoryCalendar handles GET /api/photos/memories/{username}/calendar
func (h *PhotoHandler) MemoryCalendar(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUsername(r.Context())
	owner := chi.URLParam(r, "username")

	dates, err := h.engagement.MemoryCalendar(r.Context(), viewer, owner)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, map[string]any{"dates": dates})
}

// MemoriesForDate handles GET /api/photos/memories/{username}/{date}
func (h *PhotoHandler) MemoriesForDate(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUsername(r.Context())
	owner := chi.URLParam(r, "username")
	date := chi.URLParam(r, "date")

	photos, err := h.engagement.MemoriesForDate(r.Context(), viewer, owner, date)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, map[string]any{"photos": photos})
}

// LikeRequest is the request body for POST /api/photos/like
type LikeRequest struct {
	PhotoID string `json:"photoId"`
}

// Like handles POST /api/photos/like
func (h *PhotoHandler) Like(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}
	if req.PhotoID == "" {
		respondErrorMessage(w, "photoId erforderlich", http.StatusBadRequest)
		return
	}

	liked, err := h.engagement.ToggleLike(r.Context(), username, req.PhotoID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Like aktualisiert", map[string]any{"liked": liked})
}

// CommentRequest is the request body for POST /api/photos/comment
type CommentRequest struct {
	PhotoID string `json:"photoId"`
	Text    string `json:"text"`
}

// Comment handles POST /api/photos/comment
func (h *PhotoHandler) Comment(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}
	if req.PhotoID == "" {
		respondErrorMessage(w, "photoId erforderlich", http.StatusBadRequest)
		return
	}

	comment, err := h.engagement.Comment(r.Context(), username, req.PhotoID, req.Text)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Kommentar hinzugefügt", map[string]any{"comment": comment})
}
