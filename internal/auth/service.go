package auth

import (
	"context"
	"errors"
	"fmt"

	"libraryapi/internal/user"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

// UserFinder looks accounts up by login name.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type Service struct {
	users  UserFinder
	tokens *Tokens
}

func NewService(users UserFinder, tokens *Tokens) *Service {
	return &Service{users: users, tokens: tokens}
}

// Login checks the credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !VerifyPassword(u.Password, password) {
		return "", ErrUnauthorized
	}

	token, err := s.tokens.Issue(u.ID, u.EffectiveRoles())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
