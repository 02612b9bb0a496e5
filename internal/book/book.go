package book

import "errors"

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrAuthorNotFound is returned when a referenced author does not exist.
	ErrAuthorNotFound = errors.New("author not found")
)

// Book represents a book entity. Author is nil until one is attached.
type Book struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title" validate:"required,min=1,max=255"`
	CoverText string     `json:"coverText" validate:"max=2000"`
	Comment   string     `json:"comment" validate:"max=2000"`
	Author    *AuthorRef `json:"author"`
}

// AuthorRef is the author summary embedded in book views.
type AuthorRef struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
