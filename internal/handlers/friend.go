package handlers

import (
	"encoding/json"
	"net/http"

	"daily-vibes-backend/internal/middleware"
	"daily-vibes-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// FriendHandler handles friend-related HTTP requests
type FriendHandler struct {
	friendService *services.FriendService
}

// NewFriendHandler creates a new friend handler
func NewFriendHandler(friendService *services.FriendService) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
	}
}

// friendEntry mirrors the wire shape of a friend or request listing
type friendEntry struct {
	Username string `json:"username"`
}

func toEntries(usernames []string) []friendEntry {
	entries := make([]friendEntry, 0, len(usernames))
	for _, username := range usernames {
		entries = append(entries, friendEntry{Username: username})
	}
	return entries
}

// List handles GET /api/friends
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	friends, err := h.friendService.ListFriends(r.Context(), username)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, map[string]any{"friends": toEntries(friends)})
}

// Requests handles GET /api/friends/requests
func (h *FriendHandler) Requests(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	requests, err := h.friendService.ListRequests(r.Context(), username)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, map[string]any{"requests": toEntries(requests)})
}

// FriendRequest is the request body for the add/accept/remove endpoints
type FriendRequest struct {
	FriendUsername string `json:"friendUsername"`
}

// Add handles POST /api/friends/add
func (h *FriendHandler) Add(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	var req FriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	if err := h.friendService.SendRequest(r.Context(), username, req.FriendUsername); err != nil {
		respondError(w, err)
		return
	}

	log.Info().
		Str("requester", username).
		Str("recipient", req.FriendUsername).
		Msg("Friend request sent")

	respondMessage(w, "Freundschaftsanfrage gesendet", nil)
}

// Accept handles POST /api/friends/accept
func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	var req FriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	if err := h.friendService.AcceptRequest(r.Context(), username, req.FriendUsername); err != nil {
		respondError(w, err)
		return
	}

	log.Info().
		Str("accepter", username).
		Str("requester", req.FriendUsername).
		Msg("Friend request accepted")

	respondMessage(w, "Freundschaft akzeptiert", nil)
}

// Remove handles POST /api/friends/remove
func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	var req FriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	if err := h.friendService.RemoveFriend(r.Context(), username, req.FriendUsername); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Freundschaft beendet", nil)
}
