package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Filters is a report's free-form filter map. Each report reads its own keys.
type Filters map[string]string

// String returns the trimmed value for key.
func (f Filters) String(key string) string {
	return strings.TrimSpace(f[key])
}

// Int returns the integer value for key. Missing or malformed values report false.
func (f Filters) Int(key string) (int, bool) {
	raw := f.String(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Decimal returns the amount for key as a nullable decimal. Malformed amounts are ignored.
func (f Filters) Decimal(key string) decimal.NullDecimal {
	raw := f.String(key)
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Params bundles the three parameter groups every paginated report accepts.
type Params struct {
	Filters    Filters
	Pagination Pagination
	Sort       Sort
}

// FromValues parses URL query parameters. page, per_page, sort_by and
// sort_direction are reserved; every other key becomes a filter.
func FromValues(values url.Values) Params {
	params := Params{Filters: Filters{}}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		val := strings.TrimSpace(vals[0])
		switch key {
		case "page":
			params.Pagination.Page = parseInt(val, DefaultPage)
		case "per_page":
			// an explicit value below one clamps to one rather than the default
			if n := parseInt(val, DefaultPerPage); n < 1 {
				params.Pagination.PerPage = 1
			} else {
				params.Pagination.PerPage = n
			}
		case "sort_by":
			params.Sort.By = val
		case "sort_direction":
			params.Sort.Direction = Direction(strings.ToLower(val))
		default:
			params.Filters[key] = val
		}
	}
	params.Pagination = params.Pagination.Normalize()
	return params
}

func parseInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
