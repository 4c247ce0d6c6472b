package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/observability"
	"infoco-backoffice/internal/session"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// Auth validates the session cookie and puts the authenticated user ID into
// the request context. A missing, undecryptable, or revoked cookie yields
// 401; a session store outage yields 500, so infrastructure failures are
// never mistaken for logged-out users.
func Auth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(session.CookieName)
			if err != nil {
				observability.SessionValidations.WithLabelValues("unauthenticated").Inc()
				http.Error(w, `{"error":"Not authenticated"}`, http.StatusUnauthorized)
				return
			}

			userID, err := sessions.Validate(r.Context(), cookie.Value)
			if errors.Is(err, domain.ErrUnauthenticated) {
				observability.SessionValidations.WithLabelValues("unauthenticated").Inc()
				http.Error(w, `{"error":"Invalid or expired session"}`, http.StatusUnauthorized)
				return
			}
			if err != nil {
				observability.SessionValidations.WithLabelValues("store_error").Inc()
				observability.FromContext(r.Context()).Error("session validation failed",
					slog.String("error", err.Error()))
				http.Error(w, `{"error":"Session verification unavailable"}`, http.StatusInternalServerError)
				return
			}
			observability.SessionValidations.WithLabelValues("ok").Inc()

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
