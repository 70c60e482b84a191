package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-admin/internal/testutil"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	env := newTestEnv(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "admin@example.com",
		Password: "correct horse",
	})
	w := env.serve(req)

	testutil.AssertStatusCode(t, w, http.StatusOK)
	testutil.AssertCookie(t, w, "session")

	resp := testutil.DecodeJSON[UserResponse](t, w)
	require.NotNil(t, resp.User)
	assert.Equal(t, "1", resp.User.ID)
	assert.Equal(t, "Admin", resp.User.Name)
	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.Equal(t, "admin", string(resp.User.Role))
	assert.NotEmpty(t, resp.CSRFToken)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	w := env.serve(req)

	testutil.AssertJSONError(t, w, http.StatusUnauthorized, "Invalid credentials")
	testutil.AssertNoCookie(t, w, "session")
	assert.Nil(t, env.sessions.Session)
}

func TestAuthHandler_Login_UnknownEmailSameResponse(t *testing.T) {
	env := newTestEnv(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "intruder@example.com",
		Password: "correct horse",
	})
	w := env.serve(req)

	testutil.AssertJSONError(t, w, http.StatusUnauthorized, "Invalid credentials")
}

func TestAuthHandler_Login_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"email":`, "Invalid request body"},
		{"missing password", `{"email":"admin@example.com"}`, "Email and password are required"},
		{"blank email", `{"email":"  ","password":"x"}`, "Email and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			testutil.AssertJSONError(t, env.serve(req), http.StatusBadRequest, tt.want)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	for _, path := range []string{"/api/auth/logout", "/api/logout"} {
		t.Run(path, func(t *testing.T) {
			env := newTestEnv(t)
			env.signIn()

			w := env.serve(httptest.NewRequest(http.MethodPost, path, nil))

			testutil.AssertStatusCode(t, w, http.StatusOK)
			testutil.AssertJSONContains(t, w, "success", true)
			assert.True(t, env.sessions.loggedOut)
			assert.Nil(t, env.sessions.Session)
		})
	}
}

func TestAuthHandler_Logout_WithoutSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.serve(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	testutil.AssertStatusCode(t, w, http.StatusOK)
}

func TestAuthHandler_User(t *testing.T) {
	env := newTestEnv(t)

	w := env.serve(httptest.NewRequest(http.MethodGet, "/api/auth/user", nil))
	testutil.AssertStatusCode(t, w, http.StatusOK)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())

	env.signIn()
	w = env.serve(httptest.NewRequest(http.MethodGet, "/api/auth/user", nil))

	resp := testutil.DecodeJSON[UserResponse](t, w)
	require.NotNil(t, resp.User)
	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.Equal(t, testCSRFToken, resp.CSRFToken)
}
