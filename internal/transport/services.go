package transport

import (
	"context"

	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/event"
	"github.com/rpggio/costwatch/internal/domain/health"
	"github.com/rpggio/costwatch/internal/domain/overrun"
	"github.com/rpggio/costwatch/internal/domain/portfolio"
	"github.com/rpggio/costwatch/internal/query"
)

// ContractCosts resolves the cost of a single contract.
type ContractCosts interface {
	ContractCost(ctx context.Context, tenantID, contractID string) (*contract.Row, error)
}

// OverrunReports serves the cost overrun finder.
type OverrunReports interface {
	Lists(ctx context.Context, tenantID string, f overrun.ListFilter) (*overrun.Lists, error)
	Table(ctx context.Context, tenantID string, f overrun.TableFilter, p query.Pagination, sort query.Sort) (query.Page[contract.Row], error)
	Export(ctx context.Context, tenantID string, f overrun.TableFilter, sort query.Sort) ([]contract.Row, error)
}

// PortfolioReports serves project and client rollups.
type PortfolioReports interface {
	Projects(ctx context.Context, tenantID string, f portfolio.ProjectFilter, p query.Pagination, sort query.Sort) (query.Page[portfolio.ProjectRollup], error)
	ExportProjects(ctx context.Context, tenantID string, f portfolio.ProjectFilter, sort query.Sort) ([]portfolio.ProjectRollup, error)
	Clients(ctx context.Context, tenantID string, f portfolio.ClientFilter, p query.Pagination, sort query.Sort) (query.Page[portfolio.ClientRollup], error)
	ExportClients(ctx context.Context, tenantID string, f portfolio.ClientFilter, sort query.Sort) ([]portfolio.ClientRollup, error)
	ProjectSummary(ctx context.Context, tenantID, projectID string) (*portfolio.ProjectSummary, error)
}

// HealthReports serves project health, snapshots and history.
type HealthReports interface {
	Portfolio(ctx context.Context, tenantID string) ([]health.ProjectHealth, error)
	Snapshot(ctx context.Context, tenantID, projectID string) (*health.Snapshot, error)
	SnapshotAll(ctx context.Context, tenantID string) (int, error)
	History(ctx context.Context, tenantID string, days int) ([]health.HistoryPoint, error)
}

// EventLog lists report events.
type EventLog interface {
	Recent(ctx context.Context, tenantID string, opts event.ListOptions) ([]event.Event, error)
}

// Services bundles the report operations exposed over HTTP.
type Services struct {
	Contracts ContractCosts
	Overruns  OverrunReports
	Portfolio PortfolioReports
	Health    HealthReports
	Events    EventLog
}
