package middleware

import (
	"context"
	"net/http"

	"github.com/nkiryanov/authsvc/internal/handlers/render"
	"github.com/nkiryanov/authsvc/internal/handlers/userctx"
	"github.com/nkiryanov/authsvc/internal/models"
)

type authService interface {
	// Resolve session token to user
	// Has to return apperrors.ErrAuthRequired when token is empty or unknown
	CurrentUser(ctx context.Context, token string) (models.User, error)

	// Get session token from request, empty string when absent
	ReadSessionToken(r *http.Request) string
}

// AuthMiddleware resolves the session cookie to a user and stores it
// in the request context, rejecting the request with 401 otherwise
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := as.ReadSessionToken(r)

			user, err := as.CurrentUser(r.Context(), token)
			if err != nil {
				render.ServiceError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			ctx := userctx.NewContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
