package middleware

import (
	"net/http"

	"github.com/nkiryanov/authsvc/internal/handlers/render"
)

type errorLogger interface {
	Error(msg string, args ...any)
}

// RecoverMiddleware turns panics into a generic 500 response
// The panic value is logged, never sent to the client
func RecoverMiddleware(l errorLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					l.Error(
						"panic while handling request",
						"method", r.Method,
						"uri", r.RequestURI,
						"panic", p,
					)
					render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
