package book

import (
	"context"
	"errors"
	"fmt"

	"libraryapi/internal/paging"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of books and the total number of books.
func (s *Service) List(ctx context.Context, p paging.Params) ([]Book, int, error) {
	limit, offset := p.Window()
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create persists b, then attaches the author authorID in a second write
// when it exists. An unknown author leaves the book without one.
func (s *Service) Create(ctx context.Context, b *Book, authorID int64) error {
	b.Author = nil
	if err := s.repo.Create(ctx, b); err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	if authorID < 1 {
		return nil
	}

	ref, err := s.repo.FindAuthor(ctx, authorID)
	if errors.Is(err, ErrAuthorNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find author %d: %w", authorID, err)
	}

	if err := s.repo.AttachAuthor(ctx, b.ID, ref.ID); err != nil {
		return fmt.Errorf("attach author %d to book %d: %w", ref.ID, b.ID, err)
	}
	b.Author = &ref
	return nil
}

// FindAuthor looks up an author for assignment to a book.
func (s *Service) FindAuthor(ctx context.Context, id int64) (AuthorRef, error) {
	if id < 1 {
		return AuthorRef{}, ErrAuthorNotFound
	}
	return s.repo.FindAuthor(ctx, id)
}

func (s *Service) Update(ctx context.Context, b *Book) error {
	return s.repo.Update(ctx, b)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
