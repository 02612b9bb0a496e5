package author

// Group names the serialization used for author responses and their cache
// keys.
const Group = "getAuthors"

type View struct {
	ID        int64         `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Books     []BookRefView `json:"books"`
}

type BookRefView struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CoverText string `json:"coverText"`
}

func NewView(a Author) View {
	books := make([]BookRefView, 0, len(a.Books))
	for _, b := range a.Books {
		books = append(books, BookRefView(b))
	}
	return View{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, Books: books}
}

func NewViews(authors []Author) []View {
	out := make([]View, 0, len(authors))
	for _, a := range authors {
		out = append(out, NewView(a))
	}
	return out
}
