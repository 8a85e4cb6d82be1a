// Package app wires repositories and report services over one database.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rpggio/costwatch/internal/cache"
	"github.com/rpggio/costwatch/internal/config"
	"github.com/rpggio/costwatch/internal/dataset"
	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/event"
	"github.com/rpggio/costwatch/internal/domain/health"
	"github.com/rpggio/costwatch/internal/domain/overrun"
	"github.com/rpggio/costwatch/internal/domain/portfolio"
	"github.com/rpggio/costwatch/internal/domain/project"
	"github.com/rpggio/costwatch/internal/mcp"
	"github.com/rpggio/costwatch/internal/sqlite"
	"github.com/rpggio/costwatch/internal/transport"
)

// App holds the report services.
type App struct {
	DB        *sqlite.DB
	APIKeys   *sqlite.APIKeyRepository
	Contracts *contract.Aggregator
	Overruns  *overrun.Service
	Projects  *project.Service
	Portfolio *portfolio.Service
	Health    *health.Service
	Events    *event.Service
}

// New builds every service over db. now is the report clock; nil uses
// the configured timezone.
func New(db *sqlite.DB, cfg config.Config, now func() time.Time, logger *slog.Logger) *App {
	if now == nil {
		loc, err := cfg.Reports.Location()
		if err != nil {
			loc = time.UTC
		}
		now = func() time.Time { return time.Now().In(loc) }
	}

	contractRepo := sqlite.NewContractRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	clientRepo := sqlite.NewClientRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	snapshotRepo := sqlite.NewSnapshotRepository(db)
	eventRepo := sqlite.NewEventRepository(db)

	aggregator := contract.NewAggregator(contractRepo, cfg.Reports.AggregateConcurrency, logger)
	projectSvc := project.NewService(projectRepo, logger)
	portfolioSvc := portfolio.NewService(projectSvc, clientRepo, aggregator, contractRepo, now, logger)
	eventSvc := event.NewService(eventRepo, logger)

	overview := health.NewTaskCostOverview(taskRepo, portfolioSvc, now)
	healthSvc := health.NewService(projectSvc, overview, snapshotRepo, health.Options{
		Cache:    cache.New(),
		CacheTTL: cfg.Reports.HealthCacheTTL,
		OnRebuild: func(ctx context.Context, ev health.RebuildEvent) {
			eventSvc.PortfolioRebuilt(ctx, ev.TenantID, ev.ProjectCount, ev.Duration)
		},
		OnSweep: func(ctx context.Context, ev health.SweepEvent) {
			eventSvc.SnapshotSweep(ctx, ev.TenantID, ev.ProjectCount, ev.Snapshotted, ev.Duration)
		},
		Now: now,
	}, logger)

	return &App{
		DB:        db,
		APIKeys:   sqlite.NewAPIKeyRepository(db),
		Contracts: aggregator,
		Overruns:  overrun.NewService(aggregator, logger),
		Projects:  projectSvc,
		Portfolio: portfolioSvc,
		Health:    healthSvc,
		Events:    eventSvc,
	}
}

// Import loads ds and drops the tenant's cached health portfolio so the next
// read reflects the new rows.
func (a *App) Import(ctx context.Context, ds *dataset.Dataset) (dataset.Counts, error) {
	counts, err := dataset.NewImporter(a.DB).Import(ctx, ds)
	if counts != (dataset.Counts{}) {
		a.Health.InvalidatePortfolio(ds.TenantID)
	}
	return counts, err
}

// HTTPServices exposes the services to the HTTP router.
func (a *App) HTTPServices() transport.Services {
	return transport.Services{
		Contracts: a.Contracts,
		Overruns:  a.Overruns,
		Portfolio: a.Portfolio,
		Health:    a.Health,
		Events:    a.Events,
	}
}

// MCPServices exposes the services to the MCP tools.
func (a *App) MCPServices() mcp.Services {
	return mcp.Services{
		Contracts: a.Contracts,
		Overruns:  a.Overruns,
		Portfolio: a.Portfolio,
		Health:    a.Health,
		Events:    a.Events,
	}
}

// Resolver returns the bearer token resolver for the configured auth mode.
func (a *App) Resolver(cfg config.AuthConfig) transport.TenantResolver {
	if cfg.Mode == "jwt" {
		return transport.NewJWTResolver(cfg.JWTSecret)
	}
	return a.APIKeys
}

// AuthMiddleware authenticates API requests, or pins every request to the
// configured tenant when auth is disabled.
func (a *App) AuthMiddleware(cfg config.AuthConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return transport.StaticTenant(cfg.Tenant)
	}
	return transport.AuthMiddleware(a.Resolver(cfg))
}
