package httpx

import (
	"errors"
	"net/http"
	"strconv"
)

var ErrInvalidID = errors.New("invalid id")

// PathID parses the named path wildcard as a positive int64.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return id, nil
}
