package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"daily-vibes-backend/internal/services"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware creates a middleware for JWT authentication. A missing
// token is a 401, an invalid one a 403.
func AuthMiddleware(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, "Kein Token vorhanden", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, "Kein Token vorhanden", http.StatusUnauthorized)
				return
			}

			identity, err := userService.ValidateJWT(parts[1])
			if err != nil {
				respondError(w, "Ungültiger Token", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards administrative routes; must run after AuthMiddleware
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentity(r.Context())
		if identity == nil || !identity.Admin {
			respondError(w, "Administratorrechte erforderlich", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetIdentity extracts the authenticated identity from context
func GetIdentity(ctx context.Context) *services.Identity {
	identity, ok := ctx.Value(identityKey).(*services.Identity)
	if !ok {
		return nil
	}
	return identity
}

// GetUsername extracts the authenticated username from context
func GetUsername(ctx context.Context) string {
	identity := GetIdentity(ctx)
	if identity == nil {
		return ""
	}
	return identity.Username
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}

// ValidateWebSocketToken validates a JWT token from a WebSocket query parameter
func ValidateWebSocketToken(token string, userService *services.UserService) (*services.Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("token required")
	}
	return userService.ValidateJWT(token)
}
