package main

import (
	"context"
	"flag"
	"os"

	"libraryapi/internal/platform/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}
	logger, err := logging.New(cfg.Development)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), cfg, *command, *name, logger); err != nil {
		logger.Error("migration failed", zap.String("command", *command), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg migrateConfig, command, name string, logger *zap.Logger) error {
	if command == "create" {
		if name == "" {
			return errNameRequired
		}
		if err := goose.Create(nil, cfg.MigrationsDir, name, "sql"); err != nil {
			return err
		}
		logger.Info("migration created", zap.String("name", name))
		return nil
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(nil)
	goose.SetLogger(zap.NewStdLog(logger))
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		if err := goose.UpContext(ctx, db, cfg.MigrationsDir); err != nil {
			return err
		}
		logger.Info("migrations applied", zap.String("dir", cfg.MigrationsDir))
	case "down":
		if err := goose.DownContext(ctx, db, cfg.MigrationsDir); err != nil {
			return err
		}
		logger.Info("migration rolled back", zap.String("dir", cfg.MigrationsDir))
	case "status":
		return goose.StatusContext(ctx, db, cfg.MigrationsDir)
	default:
		return errUnknownCommand(command)
	}
	return nil
}
