package author

import "errors"

// ErrNotFound is returned when an author is not found.
var ErrNotFound = errors.New("author not found")

// Author is a writer owning zero or more books.
type Author struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName" validate:"max=255"`
	LastName  string    `json:"lastName" validate:"required,max=255"`
	Books     []BookRef `json:"books"`
}

// BookRef is the summary of a book embedded in author views.
type BookRef struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CoverText string `json:"coverText"`
}
