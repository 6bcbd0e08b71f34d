// Package pagination normalizes page/limit query parameters and builds the
// pagination block returned with list responses.
package pagination

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*MaxLimit within int.
	MaxPage = math.MaxInt/MaxLimit + 1
)

// Params is a normalized page request.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// New clamps page to [1, MaxPage] and limit to [1, MaxLimit].
func New(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// FromQuery parses raw query values. Missing or non-numeric values fall back
// to the defaults before clamping.
func FromQuery(page, limit string) Params {
	return New(atoiOr(page, DefaultPage), atoiOr(limit, DefaultLimit))
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MetaFor builds the response block for a total row count.
func (p Params) MetaFor(total int64) Meta {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return Meta{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}

func atoiOr(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}
