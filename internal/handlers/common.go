package handlers

import (
	"encoding/json"
	"net/http"

	"daily-vibes-backend/internal/apperrors"
)

// Response is the envelope carried by every JSON response
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// respondData sends a success envelope with a payload
func respondData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// respondMessage sends a success envelope with a message and optional payload
func respondMessage(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// respondError maps a service error to its taxonomy status. Infrastructure
// failures become an opaque 500.
func respondError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	message := "Serverfehler"
	if apperrors.IsBusiness(err) {
		message = err.Error()
	}
	writeJSON(w, status, Response{Success: false, Message: message})
}

// respondErrorMessage sends a failure envelope with an explicit status
func respondErrorMessage(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, Response{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
