package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"dmserver/internal/domain"
	"dmserver/internal/service"
)

type userIDKey struct{}

func ContextWithUserID(ctx context.Context, id domain.UserID) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func UserIDFromContext(ctx context.Context) (domain.UserID, bool) {
	id, ok := ctx.Value(userIDKey{}).(domain.UserID)
	return id, ok
}

// RequireAuth converts the bearer credential into a user id or answers 401.
// Missing header, malformed token, bad signature and expiry all fail the
// same way.
func RequireAuth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
				writeMessage(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			userID, err := tokens.Verify(strings.TrimSpace(raw[len("Bearer "):]))
			if err != nil {
				slog.Debug("bearer verification failed", "error", err)
				writeMessage(w, http.StatusUnauthorized, "token invalid or expired")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}
