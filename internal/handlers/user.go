package handlers

import (
	"encoding/json"
	"net/http"

	"daily-vibes-backend/internal/middleware"
	"daily-vibes-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles auth and profile HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRequest is the request body for POST /api/auth/register
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Register(r.Context(), req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to register user")
		respondError(w, err)
		return
	}

	log.Info().Str("username", user.Username).Msg("User registered")

	respondMessage(w, "Registrierung erfolgreich", map[string]any{
		"token": token,
		"user":  user.Public(),
	})
}

// LoginRequest is the request body for POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, "Login erfolgreich", map[string]any{
		"token": token,
		"user":  user.Public(),
	})
}

// GetProfile handles GET /api/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	user, err := h.userService.GetProfile(r.Context(), username)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, map[string]any{"user": user.Public()})
}

// UpdateImageRequest is the request body for POST /api/profile/image
type UpdateImageRequest struct {
	ProfileImage *string `json:"profileImage"`
}

// UpdateImage handles POST /api/profile/image
func (h *UserHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	var req UpdateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateProfileImage(r.Context(), username, req.ProfileImage)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Profilbild aktualisiert", map[string]any{"user": user.Public()})
}

// UpdateEmailRequest is the request body for POST /api/profile/email
type UpdateEmailRequest struct {
	NewEmail string `json:"newEmail"`
	Password string `json:"password"`
}

// UpdateEmail handles POST /api/profile/email
func (h *UserHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	var req UpdateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateEmail(r.Context(), username, req.NewEmail, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Email aktualisiert", map[string]any{"user": user.Public()})
}

// UpdatePasswordRequest is the request body for POST /api/profile/password
type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UpdatePassword handles POST /api/profile/password
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), username, req.OldPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Passwort aktualisiert", nil)
}

// UpdateMemoriesVisibilityRequest is the request body for
// POST /api/profile/memories-visibility
type UpdateMemoriesVisibilityRequest struct {
	MemoriesPublic bool `json:"memoriesPublic"`
}

// UpdateMemoriesVisibility handles POST /api/profile/memories-visibility
func (h *UserHandler) UpdateMemoriesVisibility(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	var req UpdateMemoriesVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	if err := h.userService.UpdateMemoriesVisibility(r.Context(), username, req.MemoriesPublic); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Sichtbarkeit aktualisiert", nil)
}
