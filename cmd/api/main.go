package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"libraryapi/internal/config"
	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/database"
	"libraryapi/internal/platform/logging"
	"libraryapi/internal/platform/metrics"
	"libraryapi/internal/rescache"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.Development())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	backend, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	m := metrics.New()

	store, err := newCacheStore(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	cache, err := rescache.New(store, rescache.Options{
		TTL:      cfg.Cache.TTL,
		MaxKeys:  cfg.Cache.MaxKeys,
		Logger:   logger.Named("cache"),
		Recorder: m,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(context.Background()); err != nil {
			logger.Warn("cache close failed", zap.Error(err))
		}
	}()
	logger.Info("response cache ready", zap.String("driver", cfg.Cache.Driver), zap.Duration("ttl", cache.TTL()))

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	httpServer := &http.Server{
		Addr: cfg.Addr,
		Handler: newRouter(deps{
			cfg:     cfg,
			log:     logger,
			backend: backend,
			cache:   cache,
			metrics: m,
			limiter: limiter,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
