package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/marketplace-api/internal/api"
	apimiddleware "github.com/phrazzld/marketplace-api/internal/api/middleware"
	"github.com/phrazzld/marketplace-api/internal/config"
	"github.com/phrazzld/marketplace-api/internal/platform/memstore"
	"github.com/phrazzld/marketplace-api/internal/service"
	"github.com/phrazzld/marketplace-api/internal/service/auth"
)

// testEnv wires handlers against in-memory stores, mirroring the production
// router layout.
type testEnv struct {
	router    http.Handler
	accounts  *memstore.AccountStore
	articles  *memstore.ArticleStore
	ledger    service.LedgerService
	catalog   service.CatalogService
	jwtSvc    auth.JWTService
	userSvc   service.UserService
	purchases service.PurchaseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	accounts := memstore.NewAccountStore()
	articles := memstore.NewArticleStore()

	ledger := service.NewLedgerService(accounts, nil)
	catalog := service.NewCatalogService(articles, accounts, nil)
	userSvc := service.NewUserService(accounts, ledger, nil)
	purchases, err := service.NewPurchaseService(ledger, catalog, nil)
	require.NoError(t, err)

	jwtSvc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "handler-test-secret-32-characters!",
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60 * 24,
	})
	require.NoError(t, err)

	authHandler := api.NewAuthHandler(userSvc, jwtSvc, auth.NewBcryptVerifier())
	userHandler := api.NewUserHandler(userSvc, ledger)
	articleHandler := api.NewArticleHandler(catalog, purchases)
	authMiddleware := apimiddleware.NewAuthMiddleware(jwtSvc)

	r := chi.NewRouter()
	r.Use(apimiddleware.TraceMiddleware)
	r.Route("/api", func(r chi.Router) {
		r.Post("/user/signup", authHandler.Signup)
		r.Post("/user/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/user/funds/{id}", userHandler.AddFunds)
			r.Get("/user/balance/{id}", userHandler.GetBalance)

			r.Post("/article/create", articleHandler.Create)
			r.Get("/article/mine", articleHandler.ListMine)
			r.Get("/article/{articleId}", articleHandler.Get)
			r.Post("/article/{articleId}", articleHandler.Purchase)
			r.Delete("/article/{articleId}", articleHandler.Delete)
		})
	})

	return &testEnv{
		router:    r,
		accounts:  accounts,
		articles:  articles,
		ledger:    ledger,
		catalog:   catalog,
		jwtSvc:    jwtSvc,
		userSvc:   userSvc,
		purchases: purchases,
	}
}

// do performs a JSON request against the test router. A nil body sends no
// payload; a non-empty token is attached as a bearer credential.
func (e *testEnv) do(
	t *testing.T,
	method, path, token string,
	body interface{},
) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorded JSON response body into out.
func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// signup registers a fresh account and returns its auth response.
func (e *testEnv) signup(t *testing.T) api.AuthResponse {
	t.Helper()

	email := fmt.Sprintf("%s@example.com", uuid.NewString()[:8])
	rec := e.do(t, http.MethodPost, "/api/user/signup", "", api.SignupRequest{
		DisplayName: "Test Account",
		Email:       email,
		Password:    "a decent password",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp api.AuthResponse
	decode(t, rec, &resp)
	require.NotEqual(t, uuid.Nil, resp.AccountID)
	require.NotEmpty(t, resp.AccessToken)
	return resp
}

// fund credits an account through the API using its own token.
func (e *testEnv) fund(t *testing.T, account api.AuthResponse, funds int64) {
	t.Helper()

	path := "/api/user/funds/" + account.AccountID.String()
	rec := e.do(t, http.MethodPost, path, account.AccessToken, api.AddFundsRequest{Funds: funds})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

// createArticle lists an article through the API as the given account.
func (e *testEnv) createArticle(
	t *testing.T,
	account api.AuthResponse,
	title string,
	price int64,
) api.ArticleResponse {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/article/create", account.AccessToken,
		api.CreateArticleRequest{Title: title, Price: price})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp api.ArticleResponse
	decode(t, rec, &resp)
	return resp
}
