package query

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPagination_Normalize(t *testing.T) {
	require.Equal(t, Pagination{Page: 1, PerPage: 25}, Pagination{}.Normalize())
	require.Equal(t, Pagination{Page: 1, PerPage: 1}, Pagination{Page: -3, PerPage: -1}.Normalize())
	require.Equal(t, Pagination{Page: 4, PerPage: 100}, Pagination{Page: 4, PerPage: 500}.Normalize())
}

func TestPaginate_LastPageAndOverflow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page := Paginate(items, Pagination{Page: 2, PerPage: 3})
	require.Equal(t, []int{4, 5, 6}, page.Items)
	require.Equal(t, Meta{Total: 7, PerPage: 3, CurrentPage: 2, LastPage: 3}, page.Pagination)

	last := Paginate(items, Pagination{Page: 3, PerPage: 3})
	require.Equal(t, []int{7}, last.Items)

	past := Paginate(items, Pagination{Page: 9, PerPage: 3})
	require.NotNil(t, past.Items)
	require.Empty(t, past.Items)
	require.Equal(t, 7, past.Pagination.Total)
	require.Equal(t, 3, past.Pagination.LastPage)
}

func TestPaginate_Empty(t *testing.T) {
	page := Paginate([]string{}, Pagination{})
	require.Empty(t, page.Items)
	require.Equal(t, 0, page.Pagination.LastPage)
	require.Equal(t, 25, page.Pagination.PerPage)
}

type row struct {
	code   string
	amount int
}

var rowSorter = Sorter[row]{
	Default: "amount",
	Fields: map[string]Field[row]{
		"code":   {Compare: func(a, b row) int { return strings.Compare(a.code, b.code) }},
		"amount": {Numeric: true, Compare: func(a, b row) int { return a.amount - b.amount }},
	},
	TieBreak: func(a, b row) int { return strings.Compare(a.code, b.code) },
}

func codes(rows []row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.code)
	}
	return out
}

func TestSorter_NaturalDirections(t *testing.T) {
	rows := []row{{"b", 5}, {"a", 10}, {"c", 1}}

	rowSorter.Sort(rows, Sort{})
	require.Equal(t, []string{"a", "b", "c"}, codes(rows))

	rowSorter.Sort(rows, Sort{By: "code"})
	require.Equal(t, []string{"a", "b", "c"}, codes(rows))

	rowSorter.Sort(rows, Sort{By: "amount", Direction: Asc})
	require.Equal(t, []string{"c", "b", "a"}, codes(rows))
}

func TestSorter_CodeIsByteOrderAndReversible(t *testing.T) {
	rows := []row{{"b-2", 0}, {"B-1", 0}, {"a-9", 0}, {"A-3", 0}}

	rowSorter.Sort(rows, Sort{By: "code", Direction: Asc})
	asc := codes(rows)
	require.Equal(t, []string{"A-3", "B-1", "a-9", "b-2"}, asc)

	rowSorter.Sort(rows, Sort{By: "code", Direction: Desc})
	desc := codes(rows)
	for i := range asc {
		require.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestSorter_UnknownKeyFallsBack(t *testing.T) {
	key, dir := rowSorter.Resolve(Sort{By: "nope", Direction: "sideways"})
	require.Equal(t, "amount", key)
	require.Equal(t, Desc, dir)
}

func TestSorter_TieBreakOnCode(t *testing.T) {
	rows := []row{{"z", 1}, {"m", 1}, {"a", 2}}
	rowSorter.Sort(rows, Sort{By: "amount"})
	require.Equal(t, []string{"a", "m", "z"}, codes(rows))
}

func TestFromValues(t *testing.T) {
	values := url.Values{
		"page":           {"3"},
		"per_page":       {"0"},
		"sort_by":        {"code"},
		"sort_direction": {"DESC"},
		"status":         {" active "},
		"min_overrun":    {"12.50"},
	}
	params := FromValues(values)

	require.Equal(t, Pagination{Page: 3, PerPage: 1}, params.Pagination)
	require.Equal(t, Sort{By: "code", Direction: Desc}, params.Sort)
	require.Equal(t, "active", params.Filters.String("status"))

	amount := params.Filters.Decimal("min_overrun")
	require.True(t, amount.Valid)
	require.Equal(t, "12.5", amount.Decimal.String())
	require.False(t, params.Filters.Decimal("missing").Valid)
}

func TestFromValues_Defaults(t *testing.T) {
	params := FromValues(url.Values{"page": {"abc"}})
	require.Equal(t, Pagination{Page: 1, PerPage: 25}, params.Pagination)
	require.Empty(t, params.Filters)
}
