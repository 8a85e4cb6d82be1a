package query

import (
	"slices"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is the caller's requested ordering.
type Sort struct {
	By        string    `json:"sort_by,omitempty"`
	Direction Direction `json:"sort_direction,omitempty"`
}

// Field describes one sortable key. Compare must order ascending.
// Numeric fields sort descending unless the caller asks otherwise.
type Field[T any] struct {
	Compare func(a, b T) int
	Numeric bool
}

// Sorter holds the allowed keys for one report.
type Sorter[T any] struct {
	Fields   map[string]Field[T]
	Default  string
	TieBreak func(a, b T) int
}

// Resolve returns the effective key and direction. Unknown keys fall back to
// the default key; unknown directions fall back to the key's natural order.
func (s Sorter[T]) Resolve(sort Sort) (string, Direction) {
	key := strings.TrimSpace(sort.By)
	field, ok := s.Fields[key]
	if !ok {
		key = s.Default
		field = s.Fields[key]
	}

	switch Direction(strings.ToLower(string(sort.Direction))) {
	case Asc:
		return key, Asc
	case Desc:
		return key, Desc
	}
	if field.Numeric {
		return key, Desc
	}
	return key, Asc
}

// Sort orders items in place.
func (s Sorter[T]) Sort(items []T, sort Sort) {
	key, dir := s.Resolve(sort)
	field, ok := s.Fields[key]
	if !ok || field.Compare == nil {
		return
	}

	slices.SortStableFunc(items, func(a, b T) int {
		c := field.Compare(a, b)
		if dir == Desc {
			c = -c
		}
		if c == 0 && s.TieBreak != nil {
			c = s.TieBreak(a, b)
		}
		return c
	})
}
