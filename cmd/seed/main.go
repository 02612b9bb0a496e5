package main

import (
	"context"
	"os"

	"libraryapi/internal/config"
	"libraryapi/internal/platform/database"
	"libraryapi/internal/platform/logging"
	"libraryapi/internal/seed"

	"go.uber.org/zap"
)

func main() {
	logger, err := logging.New(os.Getenv("APP_ENV") == "development")
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), logger); err != nil {
		logger.Error("seed failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	backend, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	repos := seed.Repositories{Authors: backend.Authors, Books: backend.Books, Users: backend.Users}
	if err := seed.New(repos, nil, logger).Run(ctx); err != nil {
		return err
	}
	logger.Info("seed complete")
	return nil
}
