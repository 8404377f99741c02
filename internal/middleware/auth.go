package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/devika/wellnest/backend/internal/apperr"
	"github.com/devika/wellnest/backend/internal/httpx"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenValidator checks a bearer token and returns the user id it carries.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// RequireAuth validates the Authorization bearer token and injects the user
// id into the request context.
func RequireAuth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				httpx.HandleErr(w, r, apperr.ErrInvalidCredentials)
				return
			}

			userID, err := tokens.Validate(raw)
			if err != nil {
				httpx.HandleErr(w, r, apperr.ErrInvalidCredentials)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}
