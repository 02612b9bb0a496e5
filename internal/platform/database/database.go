// Package database opens the configured relational backend and exposes its
// repositories.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"libraryapi/internal/author"
	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/store/sqlite"
	"libraryapi/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Backend bundles the repositories of one open database.
type Backend struct {
	Authors author.Repository
	Books   book.Repository
	Users   user.Repository

	ping  func(context.Context) error
	close func()
}

func (b *Backend) Ping(ctx context.Context) error { return b.ping(ctx) }

func (b *Backend) Close() { b.close() }

// Open connects to the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Backend, error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		logger.Info("database connection OK", zap.String("driver", cfg.Driver), zap.String("dsn", RedactDSN(cfg.DSN)))
		return &Backend{
			Authors: author.NewPostgresRepo(pool, cfg.Timeout),
			Books:   book.NewPostgresRepo(pool, cfg.Timeout),
			Users:   user.NewPostgresRepo(pool, cfg.Timeout),
			ping:    pool.Ping,
			close:   pool.Close,
		}, nil
	case "sqlite":
		store, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		logger.Info("database connection OK", zap.String("driver", cfg.Driver), zap.String("path", cfg.SQLitePath))
		return &Backend{
			Authors: store.Authors(),
			Books:   store.Books(),
			Users:   store.Users(),
			ping:    store.Ping,
			close:   func() { _ = store.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenPostgres creates a pool and verifies it with a ping.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", RedactDSN(dsn), err)
	}
	return pool, nil
}

// RedactDSN hides the credentials of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
