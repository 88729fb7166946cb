package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/geocoder89/recipehub/internal/cache"
	"github.com/geocoder89/recipehub/internal/config"
	apphttp "github.com/geocoder89/recipehub/internal/http"
	"github.com/geocoder89/recipehub/internal/http/handlers"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/geocoder89/recipehub/internal/repo/memory"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		Env:                 "test",
		JWTSecret:           "test-secret-key",
		JWTAccessTTLMinutes: 15,
		JWTRefreshTTLDays:   7,
		MaxBodyBytes:        1 << 16,
	}
}

type testApp struct {
	router *gin.Engine
	tokens *auth.Manager
}

func setupRouter(t *testing.T, checks ...handlers.Check) testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := memory.NewStore()
	tokens := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	reg := prometheus.NewRegistry()

	router := apphttp.NewRouter(logger, apphttp.Deps{
		Cfg:      cfg,
		Users:    store.Users(),
		Recipes:  store.Recipes(),
		Tokens:   tokens,
		Cache:    cache.New(time.Minute),
		Prom:     observability.NewProm(reg),
		Gatherer: reg,
		Checks:   checks,
	})

	return testApp{router: router, tokens: tokens}
}

func (a testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	FullName     string `json:"user_fullname"`
	Email        string `json:"user_email"`
}

type recipeBody struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Desc      string    `json:"desc"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listBody struct {
	Items   []recipeBody `json:"items"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
	Count   int          `json:"count"`
}

type errBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

func signUpAndLogin(t *testing.T, app testApp, name, email, password string) tokens {
	t.Helper()

	w := app.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"user_fullname":   name,
		"user_addr_email": email,
		"user_password":   password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"user_addr_email": email,
		"user_password":   password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return decode[tokens](t, w)
}

func TestRecipeOwnershipFlow(t *testing.T) {
	app := setupRouter(t)

	w := app.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"user_fullname":   "Alice Doe",
		"user_addr_email": "alice@x.com",
		"user_password":   "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "secret1")
	assert.NotContains(t, w.Body.String(), "password")

	w = app.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"user_addr_email": "alice@x.com",
		"user_password":   "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	alice := decode[tokens](t, w)
	assert.NotEmpty(t, alice.AccessToken)
	assert.NotEmpty(t, alice.RefreshToken)
	assert.Equal(t, "Alice Doe", alice.FullName)
	assert.Equal(t, "alice@x.com", alice.Email)

	w = app.do(t, http.MethodPost, "/recipes/", alice.AccessToken, map[string]string{"title": "Soup", "desc": "Hot"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	soup := decode[recipeBody](t, w)
	assert.Equal(t, soup.CreatedAt, soup.UpdatedAt)

	bob := signUpAndLogin(t, app, "Bob Smith", "bob@x.com", "secret2")

	// foreign and missing ids look the same
	for _, path := range []string{"/recipes/" + soup.ID, "/recipes/00000000-0000-4000-8000-000000000000", "/recipes/not-a-uuid"} {
		w = app.do(t, http.MethodGet, path, bob.AccessToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w = app.do(t, http.MethodPut, "/recipes/"+soup.ID, bob.AccessToken, map[string]string{"title": "Mine", "desc": "Now"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = app.do(t, http.MethodDelete, "/recipes/"+soup.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodGet, "/recipes/"+soup.ID, alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Soup", decode[recipeBody](t, w).Title, "foreign update must not apply")

	time.Sleep(2 * time.Millisecond)
	w = app.do(t, http.MethodPut, "/recipes/"+soup.ID, alice.AccessToken, map[string]string{"title": "Stew", "desc": "Warm"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stew := decode[recipeBody](t, w)
	assert.Equal(t, soup.ID, stew.ID)
	assert.Equal(t, soup.CreatedAt, stew.CreatedAt)
	assert.True(t, stew.UpdatedAt.After(stew.CreatedAt))

	// the public list is readable without a token
	w = app.do(t, http.MethodGet, "/recipes/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[listBody](t, w)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Stew", list.Items[0].Title)

	w = app.do(t, http.MethodGet, "/auth/me/recipes", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[listBody](t, w).Items)

	w = app.do(t, http.MethodDelete, "/recipes/"+soup.ID, alice.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(t, http.MethodGet, "/recipes/"+soup.ID, alice.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthFailures(t *testing.T) {
	app := setupRouter(t)
	alice := signUpAndLogin(t, app, "Alice Doe", "alice@x.com", "secret1")

	w := app.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"user_fullname":   "Alice Again",
		"user_addr_email": "ALICE@x.com",
		"user_password":   "secret9",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_taken", decode[errBody](t, w).Error.Code)

	wrong := app.do(t, http.MethodPost, "/auth/login", "", map[string]string{"user_addr_email": "alice@x.com", "user_password": "wrong!"})
	unknown := app.do(t, http.MethodPost, "/auth/login", "", map[string]string{"user_addr_email": "ghost@x.com", "user_password": "secret1"})
	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)

	we, ue := decode[errBody](t, wrong), decode[errBody](t, unknown)
	assert.Equal(t, "invalid_credentials", we.Error.Code)
	assert.Equal(t, we.Error.Code, ue.Error.Code)
	assert.Equal(t, we.Error.Message, ue.Error.Message)

	// token types are not interchangeable
	w = app.do(t, http.MethodPost, "/auth/refresh", alice.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "wrong_token_type", decode[errBody](t, w).Error.Code)

	w = app.do(t, http.MethodGet, "/auth/me", alice.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "wrong_token_type", decode[errBody](t, w).Error.Code)

	w = app.do(t, http.MethodPost, "/recipes/", "", map[string]string{"title": "T", "desc": "D"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, decode[errBody](t, w).Error.RequestID)

	w = app.do(t, http.MethodPost, "/auth/refresh", alice.RefreshToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fresh := decode[tokens](t, w)
	w = app.do(t, http.MethodGet, "/auth/me", fresh.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSignUpPasswordByteLimit(t *testing.T) {
	app := setupRouter(t)

	// 40 characters, 80 bytes
	w := app.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"user_fullname":   "Alice Doe",
		"user_addr_email": "alice@x.com",
		"user_password":   strings.Repeat("é", 40),
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "invalid_request", decode[errBody](t, w).Error.Code)
	assert.Contains(t, w.Body.String(), "bcryptlen")

	w = app.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"user_fullname":   "Alice Doe",
		"user_addr_email": "alice@x.com",
		"user_password":   strings.Repeat("é", 36),
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestUnauthorizedResponsesChallengeBearer(t *testing.T) {
	app := setupRouter(t)
	alice := signUpAndLogin(t, app, "Alice Doe", "alice@x.com", "secret1")

	// middleware rejection and handler rejection look the same
	fromMiddleware := app.do(t, http.MethodGet, "/auth/me", "", nil)
	fromHandler := app.do(t, http.MethodPost, "/auth/refresh", alice.AccessToken, nil)

	for _, w := range []*httptest.ResponseRecorder{fromMiddleware, fromHandler} {
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("WWW-Authenticate"), "Bearer"), "got %q", w.Header().Get("WWW-Authenticate"))
		assert.NotEmpty(t, decode[errBody](t, w).Error.RequestID)
	}
}

func TestExpiredAccessToken(t *testing.T) {
	app := setupRouter(t)
	alice := signUpAndLogin(t, app, "Alice Doe", "alice@x.com", "secret1")

	w := app.do(t, http.MethodGet, "/auth/me", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, w)

	past := time.Now().Add(-time.Hour)
	oldTokens := auth.NewManager(testConfig().JWTSecret, 15*time.Minute, time.Hour, auth.WithClock(func() time.Time { return past }))
	expired, err := oldTokens.IssueAccess(me["id"].(string))
	require.NoError(t, err)

	w = app.do(t, http.MethodGet, "/auth/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token_expired", decode[errBody](t, w).Error.Code)
}

func TestProfileLifecycle(t *testing.T) {
	app := setupRouter(t)
	alice := signUpAndLogin(t, app, "Alice Doe", "alice@x.com", "secret1")
	signUpAndLogin(t, app, "Bob Smith", "bob@x.com", "secret2")

	w := app.do(t, http.MethodPut, "/auth/me", alice.AccessToken, map[string]string{"user_addr_email": "bob@x.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodPut, "/auth/me", alice.AccessToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPut, "/auth/me", alice.AccessToken, map[string]string{"id": "someone-else"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPut, "/auth/me", alice.AccessToken, map[string]string{"user_fullname": "Alice Cooper", "user_password": "newpass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Alice Cooper", decode[map[string]any](t, w)["user_fullname"])

	w = app.do(t, http.MethodPost, "/auth/login", "", map[string]string{"user_addr_email": "alice@x.com", "user_password": "newpass"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodPost, "/recipes/", alice.AccessToken, map[string]string{"title": "Soup", "desc": "Hot"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodGet, "/recipes/", "", nil)
	require.Len(t, decode[listBody](t, w).Items, 1)

	w = app.do(t, http.MethodDelete, "/auth/me", alice.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// recipes went with the account and the cached page was dropped
	w = app.do(t, http.MethodGet, "/recipes/", "", nil)
	assert.Empty(t, decode[listBody](t, w).Items)

	// the still-valid token now names nobody
	w = app.do(t, http.MethodGet, "/auth/me", alice.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unknown_subject", decode[errBody](t, w).Error.Code)

	w = app.do(t, http.MethodPost, "/recipes/", alice.AccessToken, map[string]string{"title": "Ghost", "desc": "Boo"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/auth/refresh", alice.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublicListPagination(t *testing.T) {
	app := setupRouter(t)
	alice := signUpAndLogin(t, app, "Alice Doe", "alice@x.com", "secret1")

	for i := 0; i < 8; i++ {
		w := app.do(t, http.MethodPost, "/recipes/", alice.AccessToken, map[string]string{"title": "r", "desc": "d"})
		require.Equal(t, http.StatusCreated, w.Code)
		time.Sleep(time.Millisecond)
	}

	w := app.do(t, http.MethodGet, "/recipes/", "", nil)
	first := decode[listBody](t, w)
	assert.Len(t, first.Items, 6)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 6, first.PerPage)
	for i := 1; i < len(first.Items); i++ {
		assert.False(t, first.Items[i].CreatedAt.After(first.Items[i-1].CreatedAt), "newest first")
	}

	w = app.do(t, http.MethodGet, "/recipes/?page=2", "", nil)
	assert.Len(t, decode[listBody](t, w).Items, 2)

	w = app.do(t, http.MethodGet, "/recipes/?page=99", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	beyond := decode[listBody](t, w)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)

	w = app.do(t, http.MethodGet, "/recipes/?page=-1&per_page=x", "", nil)
	assert.Len(t, decode[listBody](t, w).Items, 6)

	w = app.do(t, http.MethodGet, "/auth/me/recipes?per_page=100", alice.AccessToken, nil)
	assert.Len(t, decode[listBody](t, w).Items, 8)
}

func TestOpsEndpoints(t *testing.T) {
	down := errors.New("connection refused")
	healthy := true

	app := setupRouter(t, handlers.Check{Name: "db", Ping: func(ctx context.Context) error {
		if healthy {
			return nil
		}
		return down
	}})

	w := app.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	healthy = false
	w = app.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")

	w = app.do(t, http.MethodGet, "/docs/openapi.yaml", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "openapi:"))

	w = app.do(t, http.MethodGet, "/docs", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "unpkg.com")

	w = app.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recipehub_http_requests_total")
}
