package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"libraryapi/internal/user"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// UserRepo implements user.Repository. Roles are stored comma separated.
type UserRepo struct {
	s *Store
}

var _ user.Repository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	err := r.s.sqlDB.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, roles) VALUES (?, ?, ?) RETURNING id`,
		u.Email, u.Password, strings.Join(u.Roles, ",")).Scan(&u.ID)
	if isUniqueViolation(err) {
		return user.ErrAlreadyExists
	}
	return err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, roles FROM users WHERE email = ?`, email)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (user.User, error) {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	var u user.User
	var roles string
	err := r.s.sqlDB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Password, &roles)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	if roles != "" {
		u.Roles = strings.Split(roles, ",")
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
