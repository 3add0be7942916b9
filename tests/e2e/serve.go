package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/authsvc/internal/handlers"
	"github.com/nkiryanov/authsvc/internal/logger"
	"github.com/nkiryanov/authsvc/internal/repository/postgres"
	"github.com/nkiryanov/authsvc/internal/service/auth"
	"github.com/nkiryanov/authsvc/internal/testutil"
)

type Services struct {
	AuthService *auth.AuthService
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		// Initialize repositories
		userRepo := &postgres.UserRepo{DB: tx}
		sessionRepo := &postgres.SessionRepo{DB: tx}

		// Initialize auth service with a fast hasher, tests don't need 120k iterations
		as, err := auth.NewService(
			auth.Config{Hasher: auth.PBKDF2Hasher{Iterations: 1000}},
			userRepo,
			sessionRepo,
		)
		require.NoError(t, err, "auth service starting error")

		// Complete all together as router
		router := handlers.NewRouter(as, logger.NewNoOpLogger())

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{AuthService: as})
	})
}
