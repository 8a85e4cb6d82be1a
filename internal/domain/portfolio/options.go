package portfolio

import (
	"github.com/rpggio/costwatch/internal/query"
	"github.com/shopspring/decimal"
)

// ProjectFilter narrows the project portfolio. Status matches the project's status.
type ProjectFilter struct {
	Search           string
	ClientID         string
	ProjectID        string
	Status           string
	MinOverrunAmount decimal.NullDecimal
}

// ClientFilter narrows the client portfolio. Status matches the underlying
// contracts and is applied before aggregation.
type ClientFilter struct {
	Search           string
	ClientID         string
	ProjectID        string
	Status           string
	MinOverrunAmount decimal.NullDecimal
}

// ParseProjectFilter reads project portfolio filters.
func ParseProjectFilter(f query.Filters) ProjectFilter {
	return ProjectFilter{
		Search:           f.String("search"),
		ClientID:         f.String("client_id"),
		ProjectID:        f.String("project_id"),
		Status:           f.String("status"),
		MinOverrunAmount: f.Decimal("min_overrun_amount"),
	}
}

// ParseClientFilter reads client portfolio filters.
func ParseClientFilter(f query.Filters) ClientFilter {
	return ClientFilter{
		Search:           f.String("search"),
		ClientID:         f.String("client_id"),
		ProjectID:        f.String("project_id"),
		Status:           f.String("status"),
		MinOverrunAmount: f.Decimal("min_overrun_amount"),
	}
}
