// Package query normalizes the filter, sort and pagination parameters shared by
// every paginated report so each endpoint parses them identically.
package query

const (
	DefaultPage    = 1
	DefaultPerPage = 25
	MaxPerPage     = 100
)

// Pagination is a 1-indexed page request. Zero values mean "use the default".
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Normalize clamps page to >= 1 and per_page to [1, MaxPerPage].
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	switch {
	case p.PerPage == 0:
		p.PerPage = DefaultPerPage
	case p.PerPage < 1:
		p.PerPage = 1
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
	return p
}

// Meta describes a paginated result.
type Meta struct {
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
}

// Page is one page of items plus its pagination metadata.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Pagination Meta `json:"pagination"`
}

// Paginate slices an already sorted list. Pages past the end are empty, not errors.
func Paginate[T any](items []T, p Pagination) Page[T] {
	p = p.Normalize()
	total := len(items)
	meta := Meta{
		Total:       total,
		PerPage:     p.PerPage,
		CurrentPage: p.Page,
		LastPage:    (total + p.PerPage - 1) / p.PerPage,
	}

	start := (p.Page - 1) * p.PerPage
	if start >= total {
		return Page[T]{Items: []T{}, Pagination: meta}
	}
	end := min(start+p.PerPage, total)

	page := make([]T, end-start)
	copy(page, items[start:end])
	return Page[T]{Items: page, Pagination: meta}
}
