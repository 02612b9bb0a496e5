package author

import (
	"context"

	"libraryapi/internal/paging"
)

// Service provides author-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new author service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of authors and the total number of authors.
func (s *Service) List(ctx context.Context, p paging.Params) ([]Author, int, error) {
	limit, offset := p.Window()
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, id int64) (Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, a *Author) error {
	return s.repo.Create(ctx, a)
}

func (s *Service) Update(ctx context.Context, a *Author) error {
	return s.repo.Update(ctx, a)
}

// Delete removes the author. Its books stay, without an author.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
