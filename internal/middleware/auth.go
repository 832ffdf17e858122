package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/mtbell/tasklight/internal/database"
	"github.com/mtbell/tasklight/internal/services/oidc"
	"go.uber.org/zap"
)

// Auth validates the bearer token against the identity provider's JWKS and
// resolves the request's user, creating the account on first sight. The
// downstream layers trust the resolved user id completely.
func Auth(users database.UserStore, verifier *oidc.Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			ctx := r.Context()
			claims, err := verifier.Verify(ctx, parts[1])
			if err != nil {
				logger.Debug("token_verification_failed", zap.Error(err))
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.GetOrCreate(ctx, claims)
			if err != nil {
				logger.Error("failed_to_resolve_user", zap.Error(err))
				respondError(w, http.StatusInternalServerError, "Failed to resolve user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

// respondError sends a minimal error JSON response from middleware.
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     http.StatusText(status),
		"message":   message,
		"code":      status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
