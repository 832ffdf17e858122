package middleware

import (
	"net/http"

	"github.com/mtbell/tasklight/internal/database"
	"go.uber.org/zap"
)

// LastSeen records activity for authenticated requests. Failures are logged
// and never fail the request.
func LastSeen(users database.UserStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := UserFromContext(r); user != nil {
				if err := users.TouchLastSeen(r.Context(), user.ID); err != nil {
					logger.Warn("failed_to_update_last_seen",
						zap.String("user_id", user.ID.String()),
						zap.Error(err),
					)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
