package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-vibes-backend/internal/apperrors"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRespondData(t *testing.T) {
	rec := httptest.NewRecorder()
	respondData(rec, map[string]int{"streak": 7})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Message)
	assert.NotNil(t, resp.Data)
}

func TestRespondMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	respondMessage(rec, "Login erfolgreich", nil)

	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Login erfolgreich", resp.Message)
}

func TestRespondError_BusinessErrorKeepsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, fmt.Errorf("maximal 3 Fotos pro Tag: %w", apperrors.ErrQuotaExceeded))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "maximal 3 Fotos pro Tag")
}

func TestRespondError_InfrastructureErrorIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, errors.New("pq: connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Serverfehler", resp.Message)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestRespondError_StatusPerClass(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.ErrValidation, http.StatusBadRequest},
		{apperrors.ErrUnauthenticated, http.StatusUnauthorized},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{apperrors.ErrNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		respondError(rec, tt.err)
		assert.Equal(t, tt.want, rec.Code)
	}
}

func TestRespondErrorMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	respondErrorMessage(rec, "Ungültiger Request-Body", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Ungültiger Request-Body", resp.Message)
}
