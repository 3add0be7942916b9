package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/authsvc/internal/logger"
	"github.com/nkiryanov/authsvc/internal/repository/postgres"
	"github.com/nkiryanov/authsvc/internal/service/auth"
	"github.com/nkiryanov/authsvc/internal/testutil"
)

func Test_AuthHandlers(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Run http server with the full router over a rolled back transaction
	// Production AuthService is used
	withTx := func(dbpool *pgxpool.Pool, t *testing.T, fn func(url string, auth *auth.AuthService)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			userRepo := &postgres.UserRepo{DB: tx}
			sessionRepo := &postgres.SessionRepo{DB: tx}

			s, err := auth.NewService(
				auth.Config{Hasher: auth.PBKDF2Hasher{Iterations: 1000}},
				userRepo,
				sessionRepo,
			)
			require.NoError(t, err, "auth service starting error")

			srv := httptest.NewServer(NewRouter(s, logger.NewNoOpLogger()))
			defer srv.Close()

			fn(srv.URL, s)
		})
	}

	post := func(t *testing.T, url string, body string) (*http.Response, string) {
		t.Helper()
		resp, err := http.Post(url, "application/json", strings.NewReader(body))
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp, string(raw)
	}

	t.Run("healthcheck", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, _ *auth.AuthService) {
			resp, err := http.Get(url + "/")
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.JSONEq(t, `{"status": "ok"}`, string(body))
		})
	})

	t.Run("unknown route returns 404", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, _ *auth.AuthService) {
			resp, err := http.Get(url + "/no/such/route")
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	})

	t.Run("register ok", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, _ *auth.AuthService) {
			resp, body := post(t, url+"/auth/register", `{"username": "alice", "password": "secret1"}`)

			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"message": "User registered successfully",
					"username": "alice"
				}`, body)

			require.Equal(t, 0, len(resp.Cookies()), "register should not log the user in")
		})
	})

	t.Run("register existed user fails", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, s *auth.AuthService) {
			_, err := s.Register(t.Context(), "alice", "secret1")
			require.NoError(t, err)

			resp, body := post(t, url+"/auth/register", `{"username": "alice", "password": "secret1"}`)

			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"error": "service_error",
					"message": "Username already taken"
				}`, body)
		})
	})

	t.Run("register validation failures", func(t *testing.T) {
		tests := []struct {
			name string
			data string
		}{
			{name: "empty username", data: `{"username": "", "password": "secret1"}`},
			{name: "whitespace username", data: `{"username": "   ", "password": "secret1"}`},
			{name: "missing username", data: `{"password": "secret1"}`},
			{name: "short password", data: `{"username": "alice", "password": "12345"}`},
			{name: "missing password", data: `{"username": "alice"}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				withTx(pg.Pool, t, func(url string, _ *auth.AuthService) {
					resp, body := post(t, url+"/auth/register", tt.data)

					require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
				})
			})
		}
	})

	t.Run("register non-string field fails", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, _ *auth.AuthService) {
			resp, body := post(t, url+"/auth/register", `{"username": 42, "password": "secret1"}`)

			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
			require.Contains(t, body, "username", "error should name the offending field")
		})
	})

	t.Run("register malformed json fails", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, _ *auth.AuthService) {
			resp, body := post(t, url+"/auth/register", `{"username": "alice"`)

			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
		})
	})

	t.Run("login ok", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, s *auth.AuthService) {
			_, err := s.Register(t.Context(), "alice", "secret1")
			require.NoError(t, err)

			resp, body := post(t, url+"/auth/login", `{"username": "alice", "password": "secret1"}`)

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"message": "User logged in successfully",
					"username": "alice"
				}`, body)

			require.Equal(t, 1, len(resp.Cookies()))
			cookie := resp.Cookies()[0]
			require.Equal(t, "session", cookie.Name)
			require.Len(t, cookie.Value, 64, "session token should be 32 bytes hex encoded")
			require.True(t, cookie.HttpOnly, "session cookie should be HttpOnly")
			require.Equal(t, "/", cookie.Path, "session cookie should be available on / path")
			require.Equal(t, 0, cookie.MaxAge, "session cookie should have no explicit expiry")
		})
	})

	t.Run("login failures are indistinguishable", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, s *auth.AuthService) {
			_, err := s.Register(t.Context(), "alice", "secret1")
			require.NoError(t, err)

			wrongPass, wrongPassBody := post(t, url+"/auth/login", `{"username": "alice", "password": "wrongpass"}`)
			unknownUser, unknownUserBody := post(t, url+"/auth/login", `{"username": "nobody", "password": "wrongpass"}`)

			require.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)
			require.Equal(t, http.StatusUnauthorized, unknownUser.StatusCode)
			require.Equal(t, wrongPassBody, unknownUserBody, "response must not reveal whether the username exists")
			require.Equal(t, 0, len(wrongPass.Cookies()), "no cookies should be set on login error")
		})
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, s *auth.AuthService) {
			_, err := s.Register(t.Context(), "alice", "secret1")
			require.NoError(t, err)
			_, session, err := s.Login(t.Context(), "alice", "secret1")
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodPost, url+"/auth/logout", nil)
			require.NoError(t, err)
			req.AddCookie(&http.Cookie{Name: "session", Value: session.Token})

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.JSONEq(t, `{"message": "User logged out successfully"}`, string(body))

			require.Equal(t, 1, len(resp.Cookies()))
			cookie := resp.Cookies()[0]
			require.Equal(t, "session", cookie.Name)
			require.Empty(t, cookie.Value)
			require.Negative(t, cookie.MaxAge, "cookie should be cleared")
		})
	})

	t.Run("logout without session still succeeds", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, _ *auth.AuthService) {
			resp, body := post(t, url+"/auth/logout", "")

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `{"message": "User logged out successfully"}`, body)
		})
	})

	t.Run("me returns current user", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, s *auth.AuthService) {
			registered, err := s.Register(t.Context(), "alice", "secret1")
			require.NoError(t, err)
			_, session, err := s.Login(t.Context(), "alice", "secret1")
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodGet, url+"/auth/me", nil)
			require.NoError(t, err)
			req.AddCookie(&http.Cookie{Name: "session", Value: session.Token})

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.Contains(t, string(body), `"username":"alice"`)
			require.Contains(t, string(body), `"created_at":"`+registered.CreatedAt.Format("2006-01-02T15:04:05"), "created_at should be serialized in RFC 3339")
		})
	})

	t.Run("me without session returns 401", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, _ *auth.AuthService) {
			resp, err := http.Get(url + "/auth/me")
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	})

	t.Run("me with unknown token returns 401", func(t *testing.T) {
		withTx(pg.Pool, t, func(url string, _ *auth.AuthService) {
			req, err := http.NewRequest(http.MethodGet, url+"/auth/me", nil)
			require.NoError(t, err)
			req.AddCookie(&http.Cookie{Name: "session", Value: "0badc0de"})

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	})
}
