// Package paging turns offset/limit query parameters into SQL windows and
// page metadata.
package paging

import (
	"math"
	"net/url"
	"strconv"
)

const (
	DefaultOffset = 1
	DefaultLimit  = 5
	MaxLimit      = 100
	// MaxOffset keeps (offset-1)*MaxLimit within int on 32-bit platforms too.
	MaxOffset = math.MaxInt32 / MaxLimit
)

// Params is a page request. Offset is the 1-based page number.
type Params struct {
	Offset int
	Limit  int
}

// FromQuery reads offset and limit, falling back to the defaults when a
// value is absent, unparsable or below 1. Values above MaxOffset and
// MaxLimit are clamped, so equal pages yield equal Params.
func FromQuery(query url.Values) Params {
	return Params{
		Offset: min(intOr(query.Get("offset"), DefaultOffset), MaxOffset),
		Limit:  min(intOr(query.Get("limit"), DefaultLimit), MaxLimit),
	}
}

func intOr(raw string, def int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// Window returns the SQL LIMIT and OFFSET for the page.
func (p Params) Window() (limit, offset int) {
	limit = min(max(p.Limit, 1), MaxLimit)
	page := min(max(p.Offset, 1), MaxOffset)
	return limit, (page - 1) * limit
}

// Meta describes a served page.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta builds page metadata for total matching items.
func NewMeta(p Params, total int) Meta {
	limit, _ := p.Window()
	return Meta{
		Page:       p.Offset,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
}
