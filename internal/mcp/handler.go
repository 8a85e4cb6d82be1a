package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/event"
	"github.com/rpggio/costwatch/internal/domain/health"
	"github.com/rpggio/costwatch/internal/domain/overrun"
	"github.com/rpggio/costwatch/internal/domain/portfolio"
	"github.com/rpggio/costwatch/internal/query"
	"github.com/rpggio/costwatch/internal/repository"
)

// ContractService resolves single contract costs.
type ContractService interface {
	ContractCost(ctx context.Context, tenantID, contractID string) (*contract.Row, error)
}

// OverrunService defines the overrun finder operations needed by MCP.
type OverrunService interface {
	Lists(ctx context.Context, tenantID string, f overrun.ListFilter) (*overrun.Lists, error)
	Table(ctx context.Context, tenantID string, f overrun.TableFilter, p query.Pagination, sort query.Sort) (query.Page[contract.Row], error)
}

// PortfolioService defines the rollup operations needed by MCP.
type PortfolioService interface {
	Projects(ctx context.Context, tenantID string, f portfolio.ProjectFilter, p query.Pagination, sort query.Sort) (query.Page[portfolio.ProjectRollup], error)
	Clients(ctx context.Context, tenantID string, f portfolio.ClientFilter, p query.Pagination, sort query.Sort) (query.Page[portfolio.ClientRollup], error)
	ProjectSummary(ctx context.Context, tenantID, projectID string) (*portfolio.ProjectSummary, error)
}

// HealthService defines the health operations needed by MCP.
type HealthService interface {
	Portfolio(ctx context.Context, tenantID string) ([]health.ProjectHealth, error)
	Snapshot(ctx context.Context, tenantID, projectID string) (*health.Snapshot, error)
	SnapshotAll(ctx context.Context, tenantID string) (int, error)
	History(ctx context.Context, tenantID string, days int) ([]health.HistoryPoint, error)
}

// EventService lists report events.
type EventService interface {
	Recent(ctx context.Context, tenantID string, opts event.ListOptions) ([]event.Event, error)
}

// Handler dispatches MCP tool calls to the report services.
type Handler struct {
	contracts ContractService
	overruns  OverrunService
	portfolio PortfolioService
	health    HealthService
	events    EventService
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services) *Handler {
	return &Handler{
		contracts: services.Contracts,
		overruns:  services.Overruns,
		portfolio: services.Portfolio,
		health:    services.Health,
		events:    services.Events,
	}
}

// Handle dispatches a tool call by name.
func (h *Handler) Handle(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "get_contract_cost":
		var req ContractCostParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if strings.TrimSpace(req.ContractID) == "" {
			return nil, mapError(fmt.Errorf("%w: contract_id is required", repository.ErrInvalidInput))
		}
		row, err := h.contracts.ContractCost(ctx, tenantID, req.ContractID)
		if err != nil {
			return nil, mapError(err)
		}
		return row, nil
	case "list_cost_overruns":
		var req CostOverrunsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		f := overrun.ParseListFilter(filters(
			"status", req.Status,
			"search", req.Search,
			"min_budget_diff", req.MinBudgetDiff,
			"min_overrun_amount", req.MinOverrunAmount,
			"limit", itoa(req.Limit),
		))
		lists, err := h.overruns.Lists(ctx, tenantID, f)
		if err != nil {
			return nil, mapError(err)
		}
		return lists, nil
	case "cost_overrun_table":
		var req CostOverrunTableParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		f := overrun.ParseTableFilter(filters(
			"type", req.Type,
			"status", req.Status,
			"client_id", req.ClientID,
			"project_id", req.ProjectID,
			"search", req.Search,
			"min_overrun_amount", req.MinOverrunAmount,
		))
		page, err := h.overruns.Table(ctx, tenantID, f, req.pagination(), req.sort())
		if err != nil {
			return nil, mapError(err)
		}
		return page, nil
	case "project_portfolio":
		var req PortfolioParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		page, err := h.portfolio.Projects(ctx, tenantID, portfolio.ParseProjectFilter(req.filters()), req.pagination(), req.sort())
		if err != nil {
			return nil, mapError(err)
		}
		return page, nil
	case "client_portfolio":
		var req PortfolioParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		page, err := h.portfolio.Clients(ctx, tenantID, portfolio.ParseClientFilter(req.filters()), req.pagination(), req.sort())
		if err != nil {
			return nil, mapError(err)
		}
		return page, nil
	case "project_summary":
		var req ProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		summary, err := h.portfolio.ProjectSummary(ctx, tenantID, req.ProjectID)
		if err != nil {
			return nil, mapError(err)
		}
		return map[string]any{"summary": summary}, nil
	case "health_portfolio":
		projects, err := h.health.Portfolio(ctx, tenantID)
		if err != nil {
			return nil, mapError(err)
		}
		return map[string]any{"projects": projects}, nil
	case "health_history":
		var req HealthHistoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		history, err := h.health.History(ctx, tenantID, req.Days)
		if err != nil {
			return nil, mapError(err)
		}
		return map[string]any{"history": history}, nil
	case "snapshot_project":
		var req ProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if strings.TrimSpace(req.ProjectID) == "" {
			return nil, mapError(fmt.Errorf("%w: project_id is required", repository.ErrInvalidInput))
		}
		snap, err := h.health.Snapshot(ctx, tenantID, req.ProjectID)
		if err != nil {
			return nil, mapError(err)
		}
		return snap, nil
	case "snapshot_all":
		n, err := h.health.SnapshotAll(ctx, tenantID)
		if err != nil {
			return nil, mapError(err)
		}
		return SnapshotAllResponse{Snapshotted: n}, nil
	case "recent_events":
		var req RecentEventsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := event.ListOptions{Limit: req.Limit, Offset: req.Offset}
		if req.Type != "" {
			t := event.Type(req.Type)
			opts.Type = &t
		}
		events, err := h.events.Recent(ctx, tenantID, opts)
		if err != nil {
			return nil, mapError(err)
		}
		return map[string]any{"events": events}, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func (p PortfolioParams) filters() query.Filters {
	return filters(
		"search", p.Search,
		"client_id", p.ClientID,
		"project_id", p.ProjectID,
		"status", p.Status,
		"min_overrun_amount", p.MinOverrunAmount,
	)
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return mapError(fmt.Errorf("%w: %v", repository.ErrInvalidInput, err))
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
