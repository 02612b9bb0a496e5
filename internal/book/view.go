package book

import "libraryapi/internal/versioning"

// Group names the serialization used for book responses and their cache
// keys.
const Group = "getBooks"

// CommentSince is the first API version exposing the comment field.
const CommentSince = "2.0"

type View struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	CoverText string         `json:"coverText"`
	Comment   *string        `json:"comment,omitempty"`
	Author    *AuthorRefView `json:"author"`
}

type AuthorRefView struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// NewView serializes b for version. An empty version emits every field.
func NewView(b Book, version string) View {
	v := View{ID: b.ID, Title: b.Title, CoverText: b.CoverText}
	if versioning.AtLeast(version, CommentSince) {
		comment := b.Comment
		v.Comment = &comment
	}
	if b.Author != nil {
		ref := AuthorRefView(*b.Author)
		v.Author = &ref
	}
	return v
}

func NewViews(books []Book, version string) []View {
	out := make([]View, 0, len(books))
	for _, b := range books {
		out = append(out, NewView(b, version))
	}
	return out
}
