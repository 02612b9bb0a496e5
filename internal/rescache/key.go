package rescache

import "strconv"

// Key builds "<op>-<offset>-<limit>", so pages cache independently and only
// identical parameters collide.
func Key(op string, offset, limit int) string {
	return op + "-" + strconv.Itoa(offset) + "-" + strconv.Itoa(limit)
}

// Tags shared by the resource handlers. Author views embed books and book
// views embed authors, so writes to either resource invalidate both.
const (
	TagAuthors = "authorsCache"
	TagBooks   = "booksCache"
)

// ResourceTags is the tag set invalidated by any author or book write.
var ResourceTags = []string{TagAuthors, TagBooks}
