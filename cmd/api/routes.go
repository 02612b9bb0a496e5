package main

import (
	"context"
	"net/http"
	"time"

	"libraryapi/internal/auth"
	"libraryapi/internal/author"
	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/database"
	"libraryapi/internal/platform/metrics"
	"libraryapi/internal/rescache"
	"libraryapi/internal/user"
	"libraryapi/internal/versioning"

	"go.uber.org/zap"
)

type deps struct {
	cfg     config.Config
	log     *zap.Logger
	backend *database.Backend
	cache   *rescache.Cache
	metrics *metrics.Metrics
	limiter *httpx.RateLimitMiddleware
}

const createForbidden = "You do not have sufficient rights to create this resource"

func newRouter(d deps) http.Handler {
	tokens := auth.NewTokens(d.cfg.JWTSecret, d.cfg.JWTTTL)
	versions := versioning.NewResolver(d.cfg.DefaultAPIVersion)

	authorHandler := author.NewHTTPHandler(author.NewService(d.backend.Authors), d.cache, d.log)
	bookHandler := book.NewHTTPHandler(book.NewService(d.backend.Books), d.cache, versions, d.log)
	authHandler := auth.NewHTTPHandler(auth.NewService(user.NewService(d.backend.Users), tokens), d.log)

	adminOnly := httpx.RequireRole(user.RoleAdmin, createForbidden)

	router := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc) {
		router.Handle(pattern, httpx.Instrument(d.metrics, pattern, h))
	}

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.backend.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", d.metrics.Handler())

	handle("POST /api/login_check", authHandler.LoginCheck)

	handle("GET /api/authors", authorHandler.List)
	handle("GET /api/authors/{id}", authorHandler.Get)
	handle("POST /api/authors", adminOnly(http.HandlerFunc(authorHandler.Create)).ServeHTTP)
	handle("PATCH /api/authors/{id}", authorHandler.Update)
	handle("DELETE /api/authors/{id}", authorHandler.Delete)

	handle("GET /api/books", bookHandler.List)
	handle("GET /api/books/{id}", bookHandler.Get)
	handle("POST /api/books", adminOnly(http.HandlerFunc(bookHandler.Create)).ServeHTTP)
	handle("PATCH /api/books/{id}", bookHandler.Update)
	handle("DELETE /api/books/{id}", bookHandler.Delete)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware(d.log),
		httpx.AccessLogMiddleware(d.log),
		httpx.SecurityHeadersMiddleware(d.cfg.EnableHSTS),
		httpx.CORSMiddleware(d.cfg.CORSAllowedOrigins),
		d.limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(d.cfg.MaxBodyBytes),
		httpx.Authenticate(tokens),
	)
}
