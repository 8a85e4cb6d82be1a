package mcp

import (
	"strconv"
	"strings"

	"github.com/rpggio/costwatch/internal/query"
)

type ContractCostParams struct {
	ContractID string `json:"contract_id" jsonschema:"Contract ID"`
}

type CostOverrunsParams struct {
	Status           string `json:"status,omitempty" jsonschema:"Contract status filter (draft, active, completed, terminated)"`
	Search           string `json:"search,omitempty" jsonschema:"Matches contract code, name or client name"`
	MinBudgetDiff    string `json:"min_budget_diff,omitempty" jsonschema:"Minimum budget minus contract value, as a decimal string"`
	MinOverrunAmount string `json:"min_overrun_amount,omitempty" jsonschema:"Minimum actual overrun, as a decimal string"`
	Limit            int    `json:"limit,omitempty" jsonschema:"Maximum rows per list (default 10, max 100)"`
}

// PageParams are the pagination and sort arguments shared by table tools.
type PageParams struct {
	Page          int    `json:"page,omitempty" jsonschema:"1-indexed page number"`
	PerPage       int    `json:"per_page,omitempty" jsonschema:"Rows per page (default 25, max 100)"`
	SortBy        string `json:"sort_by,omitempty" jsonschema:"Sort column; unknown columns fall back to the default"`
	SortDirection string `json:"sort_direction,omitempty" jsonschema:"asc or desc"`
}

type CostOverrunTableParams struct {
	Type             string `json:"type,omitempty" jsonschema:"budget, actual or both (default both)"`
	Status           string `json:"status,omitempty" jsonschema:"Contract status filter"`
	ClientID         string `json:"client_id,omitempty" jsonschema:"Restrict to one client"`
	ProjectID        string `json:"project_id,omitempty" jsonschema:"Restrict to one project"`
	Search           string `json:"search,omitempty" jsonschema:"Matches contract code, name or client name"`
	MinOverrunAmount string `json:"min_overrun_amount,omitempty" jsonschema:"Minimum overrun, as a decimal string"`
	PageParams
}

type PortfolioParams struct {
	Search           string `json:"search,omitempty" jsonschema:"Matches project, client or contract names"`
	ClientID         string `json:"client_id,omitempty" jsonschema:"Restrict to one client"`
	ProjectID        string `json:"project_id,omitempty" jsonschema:"Restrict to one project"`
	Status           string `json:"status,omitempty" jsonschema:"Status filter"`
	MinOverrunAmount string `json:"min_overrun_amount,omitempty" jsonschema:"Minimum total overrun, as a decimal string"`
	PageParams
}

type ProjectParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
}

type HealthHistoryParams struct {
	Days int `json:"days,omitempty" jsonschema:"Window length in days (default 30, max 365)"`
}

type RecentEventsParams struct {
	Type   string `json:"type,omitempty" jsonschema:"Event type filter"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum events to return"`
	Offset int    `json:"offset,omitempty" jsonschema:"Events to skip"`
}

type NoParams struct{}

type SnapshotAllResponse struct {
	Snapshotted int `json:"snapshotted"`
}

// filters builds a query.Filters from key/value pairs, skipping empty values.
func filters(kv ...string) query.Filters {
	f := query.Filters{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			f[kv[i]] = kv[i+1]
		}
	}
	return f
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (p PageParams) pagination() query.Pagination {
	return query.Pagination{Page: p.Page, PerPage: p.PerPage}.Normalize()
}

func (p PageParams) sort() query.Sort {
	return query.Sort{By: p.SortBy, Direction: query.Direction(strings.ToLower(p.SortDirection))}
}
