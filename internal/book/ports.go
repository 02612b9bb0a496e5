package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Book, int, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id int64) error
	// FindAuthor returns ErrAuthorNotFound for unknown ids.
	FindAuthor(ctx context.Context, id int64) (AuthorRef, error)
	AttachAuthor(ctx context.Context, bookID, authorID int64) error
}
