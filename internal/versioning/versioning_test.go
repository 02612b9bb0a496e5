package versioning

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver("1.0")

	tests := []struct {
		name   string
		accept string
		want   string
	}{
		{name: "version segment", accept: "application/json; version=2.0", want: "2.0"},
		{name: "no version segment", accept: "application/json", want: "1.0"},
		{name: "empty header", accept: "", want: "1.0"},
		{name: "first match wins", accept: "application/json; test=bidule; version=2.0; version=3.0", want: "2.0"},
		{name: "matching segment without value is skipped", accept: "application/json; version; version=2.1", want: "2.1"},
		{name: "only valueless segment", accept: "application/json; version", want: "1.0"},
		{name: "empty value is skipped", accept: "application/json; version=", want: "1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.accept))
		})
	}
}

func TestResolver_FromRequest(t *testing.T) {
	r := NewResolver("1.0")
	req := httptest.NewRequest("GET", "/api/books/1", nil)
	req.Header.Set("Accept", "application/json;version=2.0")

	assert.Equal(t, "2.0", r.FromRequest(req))

	assert.Equal(t, "1.0", r.FromRequest(httptest.NewRequest("GET", "/api/books/1", nil)))
}

func TestAtLeast(t *testing.T) {
	assert.True(t, AtLeast("", "2.0"))
	assert.True(t, AtLeast("2.0", "2.0"))
	assert.True(t, AtLeast("2.1", "2.0"))
	assert.True(t, AtLeast("10.0", "2.0"))
	assert.False(t, AtLeast("1.0", "2.0"))
	assert.False(t, AtLeast("garbage", "2.0"))
}
