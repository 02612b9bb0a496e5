package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"libraryapi/internal/store/sqlite/migrations"

	"github.com/pressly/goose/v3"
)

// Migrate applies pending embedded migrations and returns the resulting
// schema version.
func Migrate(ctx context.Context, sqlDB *sql.DB) (int64, error) {
	provider, err := goose.NewProvider(goose.DialectSQLite3, sqlDB, migrations.FS)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}
	// provider.Close would close sqlDB, which the Store owns.
	if _, err := provider.Up(ctx); err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}
	return provider.GetDBVersion(ctx)
}
