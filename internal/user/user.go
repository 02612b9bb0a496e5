package user

import (
	"errors"
	"slices"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is an account able to log in. Password holds the bcrypt hash.
type User struct {
	ID       int64    `json:"id"`
	Email    string   `json:"email"`
	Password string   `json:"-"`
	Roles    []string `json:"roles"`
}

// EffectiveRoles returns the user's roles, always including RoleUser.
func (u User) EffectiveRoles() []string {
	if slices.Contains(u.Roles, RoleUser) {
		return u.Roles
	}
	return append(slices.Clone(u.Roles), RoleUser)
}
