package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"libraryapi/internal/auth"
	"libraryapi/internal/config"
	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/database"
	"libraryapi/internal/platform/metrics"
	"libraryapi/internal/rescache"
	"libraryapi/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	*httptest.Server
	t *testing.T
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	cfg := config.Config{
		JWTSecret:         "test-secret",
		JWTTTL:            time.Hour,
		DefaultAPIVersion: "1.0",
		MaxBodyBytes:      1 << 20,
		Database:          config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", Timeout: time.Second},
	}

	backend, err := database.Open(ctx, cfg.Database, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(backend.Close)

	hash, err := auth.HashPassword("password")
	require.NoError(t, err)
	users := user.NewService(backend.Users)
	_, err = users.Register(ctx, "admin@example.com", hash, user.RoleAdmin)
	require.NoError(t, err)
	_, err = users.Register(ctx, "user@example.com", hash, user.RoleUser)
	require.NoError(t, err)

	m := metrics.New()
	cache, err := rescache.New(rescache.NewMemoryStore(rescache.DefaultMaxEntryBytes), rescache.Options{Recorder: m})
	require.NoError(t, err)

	srv := httptest.NewServer(newRouter(deps{
		cfg:     cfg,
		log:     zap.NewNop(),
		backend: backend,
		cache:   cache,
		metrics: m,
		limiter: httpx.NewRateLimitMiddleware(1000, 1000),
	}))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, t: t}
}

func (s *testServer) do(method, path, token, body string, header ...string) (*http.Response, string) {
	s.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(s.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, string(b)
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	resp, body := s.do(http.MethodPost, "/api/login_check", "", `{"username":"`+email+`","password":"password"}`)
	require.Equal(s.t, http.StatusOK, resp.StatusCode, body)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal([]byte(body), &out))
	return out.Token
}

func TestRouter_CreateRequiresAdmin(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(http.MethodPost, "/api/authors", "", `{"lastName":"Anon"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, createForbidden)

	resp, _ = srv.do(http.MethodPost, "/api/books", srv.login("user@example.com"), `{"title":"Nope"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = srv.do(http.MethodPost, "/api/authors", "garbage", `{"lastName":"Anon"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = srv.do(http.MethodGet, "/api/authors", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"total":0`)
}

func TestRouter_LoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := srv.do(http.MethodPost, "/api/login_check", "", `{"username":"admin@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_AuthorBookLifecycle(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.login("admin@example.com")

	resp, body := srv.do(http.MethodPost, "/api/authors", admin, `{"firstName":"Frank","lastName":"Herbert"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "/api/authors/1", resp.Header.Get("Location"))

	resp, body = srv.do(http.MethodPost, "/api/authors", admin, `{"firstName":"Frank"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "VALIDATION_ERROR")

	_, authorsBefore := srv.do(http.MethodGet, "/api/authors", "", "")
	assert.Contains(t, authorsBefore, `"books":[]`)

	resp, body = srv.do(http.MethodPost, "/api/books", admin, `{"title":"Dune","coverText":"Spice","comment":"Classic","idAuthor":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "/api/books/1", resp.Header.Get("Location"))
	assert.Contains(t, body, `"lastName":"Herbert"`)

	_, authorsAfter := srv.do(http.MethodGet, "/api/authors", "", "")
	assert.Contains(t, authorsAfter, `"title":"Dune"`, "book write must invalidate cached author pages")

	_, v1 := srv.do(http.MethodGet, "/api/books/1", "", "", "Accept", "application/json")
	assert.NotContains(t, v1, `"comment"`)
	_, v2 := srv.do(http.MethodGet, "/api/books/1", "", "", "Accept", "application/json; version=2.0")
	assert.Contains(t, v2, `"comment":"Classic"`)

	resp, _ = srv.do(http.MethodPatch, "/api/books/1", admin, `{"coverText":"Arrakis"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, list := srv.do(http.MethodGet, "/api/books", "", "")
	assert.Contains(t, list, `"coverText":"Arrakis"`)
	assert.Contains(t, list, `"title":"Dune"`)

	resp, _ = srv.do(http.MethodPatch, "/api/books/1", admin, `{"idAuthor":99}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = srv.do(http.MethodDelete, "/api/authors/1", admin, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, orphan := srv.do(http.MethodGet, "/api/books/1", "", "")
	assert.Contains(t, orphan, `"author":null`)

	resp, _ = srv.do(http.MethodDelete, "/api/books/1", admin, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = srv.do(http.MethodDelete, "/api/books/1", admin, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = srv.do(http.MethodGet, "/api/books/abc", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	resp, _ = srv.do(http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = srv.do(http.MethodGet, "/api/authors", "", "")
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, body = srv.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `libraryapi_http_requests_total{method="GET",route="GET /api/authors"`)
	assert.Contains(t, body, `libraryapi_response_cache_total{outcome="miss"}`)
}
