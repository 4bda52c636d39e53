package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"daily-vibes-backend/internal/middleware"
	"daily-vibes-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ChallengeHandler handles challenge-related HTTP requests
type ChallengeHandler struct {
	challengeService *services.ChallengeService
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challengeService *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
	}
}

// Today handles GET /api/challenge/today
func (h *ChallengeHandler) Today(w http.ResponseWriter, r *http.Request) {
	date := h.challengeService.DateOf(time.Now())

	day, err := h.challengeService.SelectChallenge(r.Context(), date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("Failed to resolve today's challenge")
		respondError(w, err)
		return
	}
	respondData(w, map[string]any{"challenge": day})
}

// OverrideRequest is the request body for POST /api/challenges/override
type OverrideRequest struct {
	Date        string `json:"date"`
	ChallengeID int    `json:"challengeId"`
}

// SetOverride handles POST /api/challenges/override (admin only)
func (h *ChallengeHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	if err := h.challengeService.SetOverride(r.Context(), req.Date, req.ChallengeID); err != nil {
		respondError(w, err)
		return
	}

	log.Info().
		Str("admin", middleware.GetUsername(r.Context())).
		Str("date", req.Date).
		Int("challenge_id", req.ChallengeID).
		Msg("Challenge override set")

	respondMessage(w, "Challenge-Override gesetzt", nil)
}

// AddChallengeRequest is the request body for POST /api/challenges
type AddChallengeRequest struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AddChallenge handles POST /api/challenges (admin only)
func (h *ChallengeHandler) AddChallenge(w http.ResponseWriter, r *http.Request) {
	var req AddChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	challenge, err := h.challengeService.AddChallenge(r.Context(), req.Icon, req.Title, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}

	log.Info().
		Str("admin", middleware.GetUsername(r.Context())).
		Int("challenge_id", challenge.ID).
		Str("title", challenge.Title).
		Msg("Challenge added")

	respondData(w, map[string]any{"challenge": challenge})
}
