package middleware

import (
	"context"
	"net/http"

	"github.com/mtbell/tasklight/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// WithUser returns a context with the authenticated user attached.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the authenticated user from the request context,
// or nil when the request never passed the auth middleware.
func UserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
