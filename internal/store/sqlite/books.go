package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"libraryapi/internal/book"
)

// BookRepo implements book.Repository.
type BookRepo struct {
	s *Store
}

var _ book.Repository = (*BookRepo)(nil)

const selectBooks = `
	SELECT b.id, b.title, b.cover_text, b.comment,
	       a.id, a.first_name, a.last_name
	FROM books b
	LEFT JOIN authors a ON a.id = b.author_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (book.Book, error) {
	var b book.Book
	var authorID sql.NullInt64
	var firstName, lastName sql.NullString
	if err := row.Scan(&b.ID, &b.Title, &b.CoverText, &b.Comment, &authorID, &firstName, &lastName); err != nil {
		return book.Book{}, err
	}
	if authorID.Valid {
		b.Author = &book.AuthorRef{ID: authorID.Int64, FirstName: firstName.String, LastName: lastName.String}
	}
	return b, nil
}

func (r *BookRepo) List(ctx context.Context, limit, offset int) ([]book.Book, int, error) {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.s.sqlDB.QueryContext(ctx, selectBooks+` ORDER BY b.id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []book.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *BookRepo) GetByID(ctx context.Context, id int64) (book.Book, error) {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.s.sqlDB.QueryRowContext(ctx, selectBooks+` WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, book.ErrNotFound
	}
	return b, err
}

func (r *BookRepo) Create(ctx context.Context, b *book.Book) error {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	return r.s.sqlDB.QueryRowContext(ctx,
		`INSERT INTO books (title, cover_text, comment, author_id) VALUES (?, ?, ?, ?) RETURNING id`,
		b.Title, b.CoverText, b.Comment, authorID(b)).Scan(&b.ID)
}

func (r *BookRepo) Update(ctx context.Context, b *book.Book) error {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	res, err := r.s.sqlDB.ExecContext(ctx,
		`UPDATE books SET title = ?, cover_text = ?, comment = ?, author_id = ? WHERE id = ?`,
		b.Title, b.CoverText, b.Comment, authorID(b), b.ID)
	return affectedOrNotFound(res, err, book.ErrNotFound)
}

func (r *BookRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	res, err := r.s.sqlDB.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	return affectedOrNotFound(res, err, book.ErrNotFound)
}

func (r *BookRepo) FindAuthor(ctx context.Context, id int64) (book.AuthorRef, error) {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	var a book.AuthorRef
	err := r.s.sqlDB.QueryRowContext(ctx, `SELECT id, first_name, last_name FROM authors WHERE id = ?`, id).
		Scan(&a.ID, &a.FirstName, &a.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return book.AuthorRef{}, book.ErrAuthorNotFound
	}
	return a, err
}

func (r *BookRepo) AttachAuthor(ctx context.Context, bookID, authorID int64) error {
	ctx, cancel := r.s.withTimeout(ctx)
	defer cancel()

	res, err := r.s.sqlDB.ExecContext(ctx, `UPDATE books SET author_id = ? WHERE id = ?`, authorID, bookID)
	return affectedOrNotFound(res, err, book.ErrNotFound)
}

func authorID(b *book.Book) any {
	if b.Author == nil {
		return nil
	}
	return b.Author.ID
}
