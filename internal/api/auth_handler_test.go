package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/marketplace-api/internal/api"
)

func TestSignup(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/user/signup", "", api.SignupRequest{
		DisplayName: "Max Mustermann",
		Email:       "max@example.com",
		Password:    "a decent password",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp api.AuthResponse
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// The issued token works against a protected endpoint straight away.
	balancePath := "/api/user/balance/" + resp.AccountID.String()
	rec = env.do(t, http.MethodGet, balancePath, resp.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var balance api.BalanceResponse
	decode(t, rec, &balance)
	assert.Equal(t, int64(0), balance.Balance)
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := api.SignupRequest{
		DisplayName: "First",
		Email:       "taken@example.com",
		Password:    "a decent password",
	}

	rec := env.do(t, http.MethodPost, "/api/user/signup", "", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req.DisplayName = "Second"
	rec = env.do(t, http.MethodPost, "/api/user/signup", "", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		name string
		req  api.SignupRequest
	}{
		{"missing email", api.SignupRequest{DisplayName: "A", Password: "a decent password"}},
		{"bad email", api.SignupRequest{DisplayName: "A", Email: "nope", Password: "a decent password"}},
		{"short password", api.SignupRequest{DisplayName: "A", Email: "a@example.com", Password: "short"}},
		{"missing name", api.SignupRequest{Email: "a@example.com", Password: "a decent password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/user/signup", "", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/user/signup", "", api.SignupRequest{
		DisplayName: "Login Tester",
		Email:       "login@example.com",
		Password:    "a decent password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/user/login", "", api.LoginRequest{
		Email:    "login@example.com",
		Password: "a decent password",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.AuthResponse
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginBadCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/user/signup", "", api.SignupRequest{
		DisplayName: "Login Tester",
		Email:       "creds@example.com",
		Password:    "a decent password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Wrong password and unknown email are indistinguishable.
	rec = env.do(t, http.MethodPost, "/api/user/login", "", api.LoginRequest{
		Email:    "creds@example.com",
		Password: "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/user/login", "", api.LoginRequest{
		Email:    "nobody@example.com",
		Password: "a decent password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	account := env.signup(t)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", "", api.RefreshTokenRequest{
		RefreshToken: account.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.RefreshTokenResponse
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	// The rotated access token is accepted by protected endpoints.
	balancePath := "/api/user/balance/" + account.AccountID.String()
	rec = env.do(t, http.MethodGet, balancePath, resp.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	account := env.signup(t)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", "", api.RefreshTokenRequest{
		RefreshToken: account.AccessToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshTokenGarbage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", "", api.RefreshTokenRequest{
		RefreshToken: "not.a.token",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	account := env.signup(t)
	balancePath := "/api/user/balance/" + account.AccountID.String()

	rec := env.do(t, http.MethodGet, balancePath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, balancePath, "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
