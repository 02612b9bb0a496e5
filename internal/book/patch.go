package book

// NoAuthor is the author id used when a create request names none.
const NoAuthor int64 = -1

// Input is the body of a create request.
type Input struct {
	Title     string `json:"title"`
	CoverText string `json:"coverText"`
	Comment   string `json:"comment"`
	IDAuthor  *int64 `json:"idAuthor"`
}

func (in Input) Book() Book {
	return Book{Title: in.Title, CoverText: in.CoverText, Comment: in.Comment}
}

// AuthorID returns the requested author, or NoAuthor.
func (in Input) AuthorID() int64 {
	if in.IDAuthor == nil {
		return NoAuthor
	}
	return *in.IDAuthor
}

// Patch holds the fields of a partial update. Nil fields are left alone.
type Patch struct {
	Title     *string `json:"title"`
	CoverText *string `json:"coverText"`
	Comment   *string `json:"comment"`
	IDAuthor  *int64  `json:"idAuthor"`
}

// Apply merges the scalar fields of p onto b. IDAuthor is resolved by the
// caller since it needs a store lookup.
func (p Patch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.CoverText != nil {
		b.CoverText = *p.CoverText
	}
	if p.Comment != nil {
		b.Comment = *p.Comment
	}
}
