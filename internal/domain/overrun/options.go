package overrun

import (
	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/query"
	"github.com/shopspring/decimal"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListFilter narrows list mode. Thresholds apply after costs are computed
// and before the lists are truncated to Limit.
type ListFilter struct {
	Status           contract.Status
	Search           string
	MinBudgetDiff    decimal.NullDecimal
	MinOverrunAmount decimal.NullDecimal
	Limit            int
}

// Type selects which overrun condition qualifies a contract in table mode.
type Type string

const (
	TypeBudget Type = "budget"
	TypeActual Type = "actual"
	TypeBoth   Type = "both"
)

// TableFilter narrows table and export mode.
type TableFilter struct {
	Type             Type
	Status           contract.Status
	ClientID         string
	ProjectID        string
	Search           string
	MinOverrunAmount decimal.NullDecimal
}

// ParseListFilter reads list mode filters.
func ParseListFilter(f query.Filters) ListFilter {
	limit, _ := f.Int("limit")
	return ListFilter{
		Status:           contract.Status(f.String("status")),
		Search:           f.String("search"),
		MinBudgetDiff:    f.Decimal("min_budget_diff"),
		MinOverrunAmount: f.Decimal("min_overrun_amount"),
		Limit:            limit,
	}
}

// ParseTableFilter reads table and export mode filters.
func ParseTableFilter(f query.Filters) TableFilter {
	return TableFilter{
		Type:             Type(f.String("type")),
		Status:           contract.Status(f.String("status")),
		ClientID:         f.String("client_id"),
		ProjectID:        f.String("project_id"),
		Search:           f.String("search"),
		MinOverrunAmount: f.Decimal("min_overrun_amount"),
	}
}

func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func normalizeType(t Type) Type {
	switch t {
	case TypeBudget, TypeActual:
		return t
	}
	return TypeBoth
}
