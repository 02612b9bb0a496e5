// Package seed loads the demo data set: ten authors, twenty books spread
// over them and one regular and one admin account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"libraryapi/internal/author"
	"libraryapi/internal/auth"
	"libraryapi/internal/book"
	"libraryapi/internal/user"

	"go.uber.org/zap"
)

const (
	AuthorCount     = 10
	BookCount       = 20
	DefaultPassword = "password"
)

type Account struct {
	Email string
	Roles []string
}

var Accounts = []Account{
	{Email: "user@example.com", Roles: []string{user.RoleUser}},
	{Email: "admin@example.com", Roles: []string{user.RoleAdmin}},
}

// Repositories are the stores the seeder writes to.
type Repositories struct {
	Authors author.Repository
	Books   book.Repository
	Users   user.Repository
}

type Seeder struct {
	repos Repositories
	rng   *rand.Rand
	log   *zap.Logger
}

func New(repos Repositories, rng *rand.Rand, logger *zap.Logger) *Seeder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Seeder{repos: repos, rng: rng, log: logger}
}

// Run inserts the data set. Accounts that already exist are left untouched.
func (s *Seeder) Run(ctx context.Context) error {
	authorIDs := make([]int64, 0, AuthorCount)
	for i := range AuthorCount {
		a := author.Author{FirstName: fmt.Sprintf("Firstname%d", i), LastName: fmt.Sprintf("Lastname%d", i)}
		if err := s.repos.Authors.Create(ctx, &a); err != nil {
			return fmt.Errorf("seed author %d: %w", i, err)
		}
		authorIDs = append(authorIDs, a.ID)
	}
	s.log.Info("authors seeded", zap.Int("count", len(authorIDs)))

	books := book.NewService(s.repos.Books)
	for i := range BookCount {
		b := book.Book{
			Title:     fmt.Sprintf("Book %d", i),
			CoverText: fmt.Sprintf("Back cover text number %d", i),
			Comment:   fmt.Sprintf("Comment %d", i),
		}
		if err := books.Create(ctx, &b, authorIDs[s.rng.IntN(len(authorIDs))]); err != nil {
			return fmt.Errorf("seed book %d: %w", i, err)
		}
	}
	s.log.Info("books seeded", zap.Int("count", BookCount))

	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	users := user.NewService(s.repos.Users)
	for _, acc := range Accounts {
		_, err := users.Register(ctx, acc.Email, hash, acc.Roles...)
		if errors.Is(err, user.ErrAlreadyExists) {
			s.log.Info("account exists, skipped", zap.String("email", acc.Email))
			continue
		}
		if err != nil {
			return fmt.Errorf("seed account %s: %w", acc.Email, err)
		}
	}
	s.log.Info("accounts seeded", zap.Int("count", len(Accounts)))
	return nil
}
