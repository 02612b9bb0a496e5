package seed_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"libraryapi/internal/auth"
	"libraryapi/internal/seed"
	"libraryapi/internal/store/sqlite"
	"libraryapi/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, sqlite.MemoryPath, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	repos := seed.Repositories{Authors: store.Authors(), Books: store.Books(), Users: store.Users()}
	s := seed.New(repos, rand.New(rand.NewPCG(1, 2)), zap.NewNop())
	require.NoError(t, s.Run(ctx))

	_, authors, err := store.Authors().List(ctx, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, seed.AuthorCount, authors)

	books, total, err := store.Books().List(ctx, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, seed.BookCount, total)
	for _, b := range books {
		assert.NotNil(t, b.Author, b.Title)
	}

	admin, err := store.Users().GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Contains(t, admin.Roles, user.RoleAdmin)
	assert.True(t, auth.VerifyPassword(admin.Password, seed.DefaultPassword))

	// A second run keeps the existing accounts.
	require.NoError(t, s.Run(ctx))
}
