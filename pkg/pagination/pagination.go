// Package pagination provides offset pagination with bounds validation and
// total-count-aware response metadata.
package pagination

import (
	"errors"
	"strconv"
)

const (
	// DefaultLimit is used when no limit query parameter is present.
	DefaultLimit = 20
	// MaxLimit caps the page size.
	MaxLimit = 100
)

// ErrInvalidPagination is returned for out-of-range page/limit values.
var ErrInvalidPagination = errors.New("invalid pagination")

// Params is a validated page/limit pair.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the window.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta describes a result window against the total matching rows.
type Meta struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// NewMeta builds response metadata for a window. total is the windowed
// count computed alongside the rows.
func (p Params) NewMeta(total int) Meta {
	return Meta{
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   total,
		HasMore: p.Offset()+p.Limit < total,
	}
}

// Parse validates raw page/limit query values. Empty strings take the
// defaults; page < 1 or limit outside [1, MaxLimit] fail before any query
// executes.
func Parse(pageStr, limitStr string) (Params, error) {
	p := Params{Page: 1, Limit: DefaultLimit}
	if pageStr != "" {
		n, err := strconv.Atoi(pageStr)
		if err != nil || n < 1 {
			return Params{}, ErrInvalidPagination
		}
		p.Page = n
	}
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 || n > MaxLimit {
			return Params{}, ErrInvalidPagination
		}
		p.Limit = n
	}
	return p, nil
}
