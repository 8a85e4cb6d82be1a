package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `costwatch reports contract costs, overruns, portfolio rollups and project health for one tenant.

Core concepts:
- Contract: has an optional total value, budget lines (planned spend) and expenses (actual spend).
- Cost: budget_total and actual_total sum active lines only. Differences and overrun are null when the contract has no value.
- Budget overrun: budget_total exceeds contract value. Actual overrun: actual_total exceeds contract value.
- Rollup: project or client totals over their contracts. Contracts without a value count only in contracts_count.
- Health: per project schedule status (from tasks) and cost status (from overruns); overall is the worse of the two.

Suggested workflow:
1) Orient with project_portfolio or health_portfolio.
2) Drill into a project with project_summary, or a contract with get_contract_cost.
3) Find problems with list_cost_overruns (top N) or cost_overrun_table (filterable, paginated).
4) Track health over time with snapshot_all and health_history.

Amounts are decimal strings; never assume float precision.

Docs:
- costwatch://docs/index
- costwatch://docs/metrics
- costwatch://docs/queries
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "costwatch://docs/index",
		Name:        "docs_index",
		Title:       "costwatch docs index",
		Description: "Entry point: available reports and which tool answers which question.",
		Content: `# costwatch: Docs Index

## Which tool

| Question | Tool |
|---|---|
| What does contract X cost? | ` + "`get_contract_cost`" + ` |
| Which contracts are over? | ` + "`list_cost_overruns`" + `, ` + "`cost_overrun_table`" + ` |
| How is each project or client doing? | ` + "`project_portfolio`" + `, ` + "`client_portfolio`" + ` |
| Anything overdue on project X? | ` + "`project_summary`" + ` |
| Which projects are at risk? | ` + "`health_portfolio`" + ` |
| Is health trending better or worse? | ` + "`health_history`" + ` |
| What did the service do recently? | ` + "`recent_events`" + ` |

## Docs

- ` + "`costwatch://docs/metrics`" + ` defines every cost and rollup field.
- ` + "`costwatch://docs/queries`" + ` lists filters, sort keys and pagination rules.

## Errors

Tool errors carry a code: ` + "`TENANT_MISMATCH`" + `, ` + "`PROJECT_NOT_FOUND`" + `, ` + "`CONTRACT_NOT_FOUND`" + `, ` + "`INVALID_INPUT`" + ` or ` + "`INTERNAL`" + `.
`,
	},
	{
		URI:         "costwatch://docs/metrics",
		Name:        "docs_metrics",
		Title:       "Cost and rollup metrics",
		Description: "Definitions of contract cost fields, rollup totals and health statuses.",
		Content: `# Metrics

## Contract cost

- ` + "`budget_total`" + `: sum of active budget lines. Never null.
- ` + "`actual_total`" + `: sum of active expenses. Never null.
- ` + "`budget_vs_contract_diff`" + `: budget_total minus contract value.
- ` + "`contract_vs_actual_diff`" + `: contract value minus actual_total.
- ` + "`overrun_amount`" + `: actual_total minus value when positive, else 0.
- ` + "`remaining_value`" + `: value minus actual_total, floored at 0.

The last four are null when the contract has no total value.

## Rollups

- ` + "`contracts_count`" + ` counts every contract, valued or not.
- ` + "`contracts_value_total`" + `, ` + "`budget_total`" + `, ` + "`actual_total`" + ` and ` + "`overrun_amount_total`" + ` sum valued contracts only.
- ` + "`contracts_value_total`" + ` is null when it would be zero.
- ` + "`over_budget_contracts_count`" + ` and ` + "`overrun_contracts_count`" + ` count contracts over on each measure.
- Client rollups add ` + "`projects_count`" + `, the distinct projects contributing contracts.

## Health

- Schedule: critical when 25% or more of tasks are overdue or blocked, warning when any task is overdue or 10% or more are blocked.
- Cost: critical when any contract has an actual overrun, warning when any is over budget or a payment is overdue.
- Overall: the worse of schedule and cost. ` + "`no_data`" + ` means nothing to judge.
`,
	},
	{
		URI:         "costwatch://docs/queries",
		Name:        "docs_queries",
		Title:       "Filters, sorting and pagination",
		Description: "Filter keys, sort keys and pagination defaults for table tools.",
		Content: `# Filters, sorting and pagination

## Pagination

- ` + "`page`" + ` is 1-indexed. ` + "`per_page`" + ` defaults to 25 and is capped at 100.
- Pages past the end are empty, not errors. ` + "`last_page`" + ` is 0 when there are no rows.

## Sorting

- ` + "`sort_by`" + ` names a column; unknown names fall back to the report's default.
- Amount columns sort descending unless ` + "`sort_direction=asc`" + `.
- Ties break by name, then ID.

## Filters

- Amount filters take decimal strings, for example ` + "`\"1500.00\"`" + `.
- ` + "`search`" + ` is a case-insensitive substring match.
- ` + "`cost_overrun_table`" + ` takes ` + "`type`" + `: budget, actual or both (either condition).
- ` + "`list_cost_overruns`" + ` takes ` + "`limit`" + ` (default 10, max 100) applied to each list.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
