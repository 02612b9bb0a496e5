package book

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

const selectBooks = `
	SELECT b.id, b.title, b.cover_text, b.comment,
	       a.id, a.first_name, a.last_name
	FROM books b
	LEFT JOIN authors a ON a.id = b.author_id`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	var authorID *int64
	var firstName, lastName *string
	if err := row.Scan(&b.ID, &b.Title, &b.CoverText, &b.Comment, &authorID, &firstName, &lastName); err != nil {
		return Book{}, err
	}
	if authorID != nil {
		b.Author = &AuthorRef{ID: *authorID, FirstName: deref(firstName), LastName: deref(lastName)}
	}
	return b, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Book, int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, selectBooks+` ORDER BY b.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(ctx, selectBooks+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	const sql = `
		INSERT INTO books (title, cover_text, comment, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	return r.db.QueryRow(ctx, sql, b.Title, b.CoverText, b.Comment, authorID(b)).Scan(&b.ID)
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	const sql = `
		UPDATE books
		SET title = $1, cover_text = $2, comment = $3, author_id = $4
		WHERE id = $5`
	tag, err := r.db.Exec(ctx, sql, b.Title, b.CoverText, b.Comment, authorID(b), b.ID)
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

	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) FindAuthor(ctx context.Context, id int64) (AuthorRef, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a AuthorRef
	err := r.db.QueryRow(ctx, `SELECT id, first_name, last_name FROM authors WHERE id = $1`, id).
		Scan(&a.ID, &a.FirstName, &a.LastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthorRef{}, ErrAuthorNotFound
		}
		return AuthorRef{}, err
	}
	return a, nil
}

func (r *PostgresRepo) AttachAuthor(ctx context.Context, bookID, authorID int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE books SET author_id = $1 WHERE id = $2`, authorID, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func authorID(b *Book) *int64 {
	if b.Author == nil {
		return nil
	}
	return &b.Author.ID
}
