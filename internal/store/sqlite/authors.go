package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"libraryapi/internal/author"
)

// AuthorRepo implements author.Repository.
type AuthorRepo struct {
	s *Store
}

var _ author.Repository = (*AuthorRepo)(nil)

func (r *AuthorRepo) List(ctx context.Context, limit, offset int) ([]author.Author, int, error) {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM authors`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.s.sqlDB.QueryContext(ctx,
		`SELECT id, first_name, last_name FROM authors ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []author.Author{}
	ids := []any{}
	for rows.Next() {
		a := author.Author{Books: []author.BookRef{}}
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	books, err := r.booksByAuthor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		if refs, ok := books[out[i].ID]; ok {
			out[i].Books = refs
		}
	}
	return out, total, nil
}

func (r *AuthorRepo) booksByAuthor(ctx context.Context, ids []any) (map[int64][]author.BookRef, error) {
	out := make(map[int64][]author.BookRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := r.s.sqlDB.QueryContext(ctx,
		`SELECT author_id, id, title, cover_text FROM books WHERE author_id IN (`+placeholders+`) ORDER BY id`, ids...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var authorID int64
		var b author.BookRef
		if err := rows.Scan(&authorID, &b.ID, &b.Title, &b.CoverText); err != nil {
			return nil, err
		}
		out[authorID] = append(out[authorID], b)
	}
	return out, rows.Err()
}

func (r *AuthorRepo) GetByID(ctx context.Context, id int64) (author.Author, error) {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	var a author.Author
	err := r.s.sqlDB.QueryRowContext(ctx, `SELECT id, first_name, last_name FROM authors WHERE id = ?`, id).
		Scan(&a.ID, &a.FirstName, &a.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return author.Author{}, author.ErrNotFound
	}
	if err != nil {
		return author.Author{}, err
	}

	books, err := r.booksByAuthor(ctx, []any{id})
	if err != nil {
		return author.Author{}, err
	}
	a.Books = books[id]
	if a.Books == nil {
		a.Books = []author.BookRef{}
	}
	return a, nil
}

func (r *AuthorRepo) Create(ctx context.Context, a *author.Author) error {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	err := r.s.sqlDB.QueryRowContext(ctx,
		`INSERT INTO authors (first_name, last_name) VALUES (?, ?) RETURNING id`,
		a.FirstName, a.LastName).Scan(&a.ID)
	if err != nil {
		return err
	}
	if a.Books == nil {
		a.Books = []author.BookRef{}
	}
	return nil
}

func (r *AuthorRepo) Update(ctx context.Context, a *author.Author) error {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	res, err := r.s.sqlDB.ExecContext(ctx,
		`UPDATE authors SET first_name = ?, last_name = ? WHERE id = ?`, a.FirstName, a.LastName, a.ID)
	return affectedOrNotFound(res, err, author.ErrNotFound)
}

func (r *AuthorRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	res, err := r.s.sqlDB.ExecContext(ctx, `DELETE FROM authors WHERE id = ?`, id)
	return affectedOrNotFound(res, err, author.ErrNotFound)
}

func affectedOrNotFound(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
