package handlers

import (
	"context"
	"net/http"

	"github.com/nkiryanov/authsvc/internal/handlers/middleware"
	"github.com/nkiryanov/authsvc/internal/handlers/render"
	"github.com/nkiryanov/authsvc/internal/logger"
	"github.com/nkiryanov/authsvc/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(auth authService, logger logger.Logger) http.Handler {
	withAuth := middleware.AuthMiddleware(auth)

	mux := http.NewServeMux()

	mux.Handle("GET /{$}", handleHealthcheck())
	mux.Handle("POST /auth/register", handleRegister(auth, logger))
	mux.Handle("POST /auth/login", handleLogin(auth, logger))
	mux.Handle("POST /auth/logout", handleLogout(auth, logger))
	mux.Handle("GET /auth/me", withAuth(handleCurrentUser()))

	// Everything else is an unknown route
	mux.Handle("/", handleNotFound())

	handler := chain(mux,
		middleware.RecoverMiddleware(logger),
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Register user with username and password
	// Has to return apperrors.ErrUserAlreadyExists if username is taken and
	// validation sentinels (ErrUsernameEmpty, ErrPasswordTooWeak) on bad input
	Register(ctx context.Context, username string, password string) (models.User, error)

	// Login user and issue a fresh session
	// Has to return apperrors.ErrInvalidCredentials for unknown user and
	// wrong password alike
	Login(ctx context.Context, username string, password string) (models.User, models.Session, error)

	// Delete session by token, idempotent
	Logout(ctx context.Context, token string) error

	// Resolve session token to user
	CurrentUser(ctx context.Context, token string) (models.User, error)

	// Session cookie plumbing
	SetSessionCookie(w http.ResponseWriter, token string)
	ClearSessionCookie(w http.ResponseWriter)
	ReadSessionToken(r *http.Request) string
}

func handleHealthcheck() http.Handler {
	type response struct {
		Status string `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, response{Status: "ok"})
	})
}

func handleNotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		render.ServiceError(w, "Not found", http.StatusNotFound)
	})
}
