package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_HandleCurrentUser_NoUserInContext(t *testing.T) {
	t.Parallel()

	// The handler mounted bare, without the auth middleware that
	// normally puts the user into the request context
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)

	handleCurrentUser().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code, "must not serve a zero value user")
	require.JSONEq(t, `{"error": "service_error", "message": "Authentication required"}`, rec.Body.String())
}
