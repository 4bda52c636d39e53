package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-vibes-backend/internal/models"
	"daily-vibes-backend/internal/services"
)

func authedRequest(t *testing.T, svc *services.UserService, user *models.User) *http.Request {
	t.Helper()
	token, err := svc.GenerateJWT(user)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	svc := services.NewUserService(nil, "secret")

	var seen string
	handler := AuthMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUsername(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, svc, &models.User{Username: "alice"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", seen)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	svc := services.NewUserService(nil, "secret")
	handler := AuthMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Kein Token vorhanden")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	svc := services.NewUserService(nil, "secret")
	handler := AuthMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	svc := services.NewUserService(nil, "secret")
	handler := AuthMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer kein.echter.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ungültiger Token")
}

func TestRequireAdmin(t *testing.T) {
	svc := services.NewUserService(nil, "secret")

	reached := false
	handler := AuthMiddleware(svc)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, svc, &models.User{Username: "alice"}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, svc, &models.User{Username: "root", IsAdmin: true}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestValidateWebSocketToken(t *testing.T) {
	svc := services.NewUserService(nil, "secret")

	_, err := ValidateWebSocketToken("", svc)
	assert.Error(t, err)

	token, err := svc.GenerateJWT(&models.User{Username: "alice"})
	require.NoError(t, err)
	identity, err := ValidateWebSocketToken(token, svc)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
}
