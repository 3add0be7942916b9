package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/authsvc/internal/apperrors"
	"github.com/nkiryanov/authsvc/internal/handlers/render"
	"github.com/nkiryanov/authsvc/internal/logger"
)

func handleRegister(auth authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"max=150"`
		Password string `json:"password" validate:"max=128"`
	}
	type response struct {
		Message  string `json:"message"`
		Username string `json:"username"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := auth.Register(r.Context(), data.Username, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUsernameEmpty), errors.Is(err, apperrors.ErrPasswordTooWeak):
				render.ServiceError(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.ServiceError(w, "Username already taken", http.StatusBadRequest)
			default:
				l.Error("register failed", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, response{
			Message:  "User registered successfully",
			Username: user.Username,
		}, http.StatusCreated)
	})
}

func handleLogin(auth authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"max=150"`
		Password string `json:"password" validate:"max=128"`
	}
	type response struct {
		Message  string `json:"message"`
		Username string `json:"username"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, session, err := auth.Login(r.Context(), data.Username, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUsernameEmpty), errors.Is(err, apperrors.ErrPasswordTooWeak):
				render.ServiceError(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				// Same body whether the username exists or not
				render.ServiceError(w, "Invalid username or password", http.StatusUnauthorized)
			default:
				l.Error("login failed", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		auth.SetSessionCookie(w, session.Token)
		render.JSON(w, response{
			Message:  "User logged in successfully",
			Username: user.Username,
		})
	})
}

func handleLogout(auth authService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.ReadSessionToken(r)

		// Logout always succeeds from the client point of view,
		// storage trouble is logged and the cookie is cleared anyway
		if err := auth.Logout(r.Context(), token); err != nil {
			l.Error("logout failed", "error", err)
		}

		auth.ClearSessionCookie(w)
		render.JSON(w, response{Message: "User logged out successfully"})
	})
}
