package mcp

import (
	"context"
	"encoding/json"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *sdkmcp.Server, h *Handler) {
	// Contracts
	addTool[ContractCostParams](server, h, "get_contract_cost",
		"Cost of one contract: budget and actual totals, differences, overrun and remaining value")
	addTool[CostOverrunsParams](server, h, "list_cost_overruns",
		"Top contracts whose budget exceeds their value and whose spend exceeds their value, largest first")
	addTool[CostOverrunTableParams](server, h, "cost_overrun_table",
		"Paginated, sortable table of overrunning contracts filtered by overrun type, status, client or project")

	// Portfolio
	addTool[PortfolioParams](server, h, "project_portfolio",
		"Per-project cost rollups with contract counts, totals and overrun counts")
	addTool[PortfolioParams](server, h, "client_portfolio",
		"Per-client cost rollups, including the number of projects contributing contracts")
	addTool[ProjectParams](server, h, "project_summary",
		"Single project rollup plus its overdue payments; summary is null when the project has no contracts")

	// Health
	addTool[NoParams](server, h, "health_portfolio",
		"Current schedule, cost and overall health of every project")
	addTool[HealthHistoryParams](server, h, "health_history",
		"Daily counts of projects per overall health status over the recent window")
	addTool[ProjectParams](server, h, "snapshot_project",
		"Record today's health snapshot for one project, replacing any earlier snapshot from today")
	addTool[NoParams](server, h, "snapshot_all",
		"Record today's health snapshot for every project; returns how many were written")

	// Events
	addTool[RecentEventsParams](server, h, "recent_events",
		"Recent report events such as portfolio rebuilds and snapshot sweeps, newest first")
}

// addTool registers a typed tool that routes through Handler.Handle and
// returns its result as JSON text.
func addTool[In any](server *sdkmcp.Server, h *Handler, name, description string) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
			params, err := json.Marshal(in)
			if err != nil {
				return nil, nil, err
			}
			result, err := h.Handle(ctx, getTenantID(ctx), name, params)
			if err != nil {
				return errorResult(err), nil, nil
			}
			return jsonResult(result)
		})
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func errorResult(err error) *sdkmcp.CallToolResult {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
	}
	data, _ := json.Marshal(apiErr)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
