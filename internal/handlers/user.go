package handlers

import (
	"net/http"
	"time"

	"github.com/nkiryanov/authsvc/internal/handlers/render"
	"github.com/nkiryanov/authsvc/internal/handlers/userctx"
)

func handleCurrentUser() http.Handler {
	type response struct {
		ID        int64     `json:"id"`
		Username  string    `json:"username"`
		CreatedAt time.Time `json:"created_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only reachable behind AuthMiddleware, but don't serve a zero
		// value user if wired up without it
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		render.JSON(w, response{
			ID:        user.ID,
			Username:  user.Username,
			CreatedAt: user.CreatedAt,
		})
	})
}
