package author

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Author, int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, first_name, last_name
		FROM authors
		ORDER BY id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Author{}
	ids := []int64{}
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, 0, err
		}
		a.Books = []BookRef{}
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

func (r *PostgresRepo) booksByAuthor(ctx context.Context, ids []int64) (map[int64][]BookRef, error) {
	out := make(map[int64][]BookRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT author_id, id, title, cover_text
		FROM books
		WHERE author_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var authorID int64
		var b BookRef
		if err := rows.Scan(&authorID, &b.ID, &b.Title, &b.CoverText); err != nil {
			return nil, err
		}
		out[authorID] = append(out[authorID], b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Author, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a Author
	err := r.db.QueryRow(ctx, `SELECT id, first_name, last_name FROM authors WHERE id = $1`, id).
		Scan(&a.ID, &a.FirstName, &a.LastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Author{}, ErrNotFound
		}
		return Author{}, err
	}

	books, err := r.booksByAuthor(ctx, []int64{id})
	if err != nil {
		return Author{}, err
	}
	a.Books = books[id]
	if a.Books == nil {
		a.Books = []BookRef{}
	}
	return a, nil
}

func (r *PostgresRepo) Create(ctx context.Context, a *Author) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	const sql = `INSERT INTO authors (first_name, last_name) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRow(ctx, sql, a.FirstName, a.LastName).Scan(&a.ID); err != nil {
		return err
	}
	if a.Books == nil {
		a.Books = []BookRef{}
	}
	return nil
}

func (r *PostgresRepo) Update(ctx context.Context, a *Author) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE authors SET first_name = $1, last_name = $2 WHERE id = $3`,
		a.FirstName, a.LastName, a.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
