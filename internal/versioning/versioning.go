// Package versioning resolves the API version requested through the Accept
// header and answers "since" checks for versioned fields.
package versioning

import (
	"net/http"
	"strings"

	"golang.org/x/mod/semver"
)

// Resolver extracts versions like "application/json; version=2.0".
type Resolver struct {
	defaultVersion string
}

func NewResolver(defaultVersion string) *Resolver {
	return &Resolver{defaultVersion: defaultVersion}
}

// Resolve scans the ;-separated segments of accept for the first one that
// mentions "version" and carries a value after "=". Segments without a value
// are skipped.
func (r *Resolver) Resolve(accept string) string {
	for _, segment := range strings.Split(accept, ";") {
		if !strings.Contains(segment, "version") {
			continue
		}
		_, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		return value
	}
	return r.defaultVersion
}

// FromRequest resolves the version of r's Accept header.
func (r *Resolver) FromRequest(req *http.Request) string {
	return r.Resolve(req.Header.Get("Accept"))
}

// AtLeast reports whether version is equal to or newer than since. An empty
// version selects every field.
func AtLeast(version, since string) bool {
	if version == "" {
		return true
	}
	return semver.Compare(canonical(version), canonical(since)) >= 0
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
