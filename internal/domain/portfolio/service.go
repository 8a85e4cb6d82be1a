package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/costwatch/internal/domain/client"
	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/project"
	"github.com/rpggio/costwatch/internal/money"
	"github.com/rpggio/costwatch/internal/query"
	"github.com/shopspring/decimal"
)

// Service rolls contract costs up to projects and clients.
type Service struct {
	projects ProjectSource
	clients  ClientSource
	costs    CostSource
	payments PaymentSource
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates a new portfolio service. A nil now uses time.Now.
func NewService(projects ProjectSource, clients ClientSource, costs CostSource, payments PaymentSource, now func() time.Time, logger *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		projects: projects,
		clients:  clients,
		costs:    costs,
		payments: payments,
		now:      now,
		logger:   logger,
	}
}

// Projects returns one page of the project portfolio.
func (s *Service) Projects(ctx context.Context, tenantID string, f ProjectFilter, p query.Pagination, sort query.Sort) (query.Page[ProjectRollup], error) {
	rollups, err := s.ExportProjects(ctx, tenantID, f, sort)
	if err != nil {
		return query.Page[ProjectRollup]{}, err
	}
	return query.Paginate(rollups, p), nil
}

// ExportProjects returns the full sorted project portfolio.
func (s *Service) ExportProjects(ctx context.Context, tenantID string, f ProjectFilter, sort query.Sort) ([]ProjectRollup, error) {
	projects, err := s.projects.List(ctx, tenantID, project.ListOptions{
		ID:       f.ProjectID,
		ClientID: f.ClientID,
		Status:   f.Status,
		Search:   f.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	rows, err := s.costs.Rows(ctx, tenantID, contract.Filter{ProjectID: f.ProjectID})
	if err != nil {
		return nil, fmt.Errorf("resolving contract costs: %w", err)
	}
	byProject := groupRows(rows, func(r contract.Row) *string { return r.ProjectID })

	rollups := make([]ProjectRollup, 0, len(projects))
	for _, proj := range projects {
		rollup := projectRollup(proj, byProject[proj.ID])
		if !money.AtLeast(money.Some(rollup.OverrunAmountTotal), f.MinOverrunAmount) {
			continue
		}
		rollups = append(rollups, rollup)
	}

	ProjectSorter.Sort(rollups, sort)
	return rollups, nil
}

// Clients returns one page of the client portfolio.
func (s *Service) Clients(ctx context.Context, tenantID string, f ClientFilter, p query.Pagination, sort query.Sort) (query.Page[ClientRollup], error) {
	rollups, err := s.ExportClients(ctx, tenantID, f, sort)
	if err != nil {
		return query.Page[ClientRollup]{}, err
	}
	return query.Paginate(rollups, p), nil
}

// ExportClients returns the full sorted client portfolio. When a contract
// status or project filter is set, clients without a matching contract are omitted.
func (s *Service) ExportClients(ctx context.Context, tenantID string, f ClientFilter, sort query.Sort) ([]ClientRollup, error) {
	clients, err := s.clients.List(ctx, tenantID, client.ListOptions{
		ID:     f.ClientID,
		Search: f.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	rows, err := s.costs.Rows(ctx, tenantID, contract.Filter{
		Status:    contract.Status(f.Status),
		ClientID:  f.ClientID,
		ProjectID: f.ProjectID,
	})
	if err != nil {
		return nil, fmt.Errorf("resolving contract costs: %w", err)
	}
	byClient := groupRows(rows, func(r contract.Row) *string { return r.ClientID })
	narrowed := f.Status != "" || f.ProjectID != ""

	rollups := make([]ClientRollup, 0, len(clients))
	for _, c := range clients {
		clientRows := byClient[c.ID]
		if narrowed && len(clientRows) == 0 {
			continue
		}
		rollup := ClientRollup{
			ID:            c.ID,
			Code:          c.Code,
			Name:          c.Name,
			ProjectsCount: distinctProjects(clientRows),
			Metrics:       Rollup(clientRows),
		}
		if !money.AtLeast(money.Some(rollup.OverrunAmountTotal), f.MinOverrunAmount) {
			continue
		}
		rollups = append(rollups, rollup)
	}

	ClientSorter.Sort(rollups, sort)
	return rollups, nil
}

// ProjectSummary returns the rollup of one project, or nil when the project
// has no contracts. Projects of another tenant yield tenant.ErrMismatch.
func (s *Service) ProjectSummary(ctx context.Context, tenantID, projectID string) (*ProjectSummary, error) {
	proj, err := s.projects.Resolve(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}

	rows, err := s.costs.Rows(ctx, tenantID, contract.Filter{ProjectID: proj.ID})
	if err != nil {
		return nil, fmt.Errorf("resolving contract costs: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	overdue, err := s.payments.OverduePayments(ctx, tenantID, contract.PaymentFilter{ProjectID: proj.ID}, s.now())
	if err != nil {
		return nil, fmt.Errorf("listing overdue payments: %w", err)
	}
	total := decimal.Zero
	for _, payment := range overdue {
		total = total.Add(payment.Amount)
	}

	return &ProjectSummary{
		ProjectRollup:        projectRollup(*proj, rows),
		OverduePaymentsCount: len(overdue),
		OverduePaymentsTotal: total,
	}, nil
}

func projectRollup(proj project.Project, rows []contract.Row) ProjectRollup {
	return ProjectRollup{
		ID:         proj.ID,
		Code:       proj.Code,
		Name:       proj.Name,
		Status:     proj.Status,
		ClientID:   proj.ClientID,
		ClientName: proj.ClientName,
		Metrics:    Rollup(rows),
	}
}

func groupRows(rows []contract.Row, key func(contract.Row) *string) map[string][]contract.Row {
	grouped := make(map[string][]contract.Row)
	for _, row := range rows {
		if id := key(row); id != nil {
			grouped[*id] = append(grouped[*id], row)
		}
	}
	return grouped
}

func distinctProjects(rows []contract.Row) int {
	seen := make(map[string]struct{})
	for _, row := range rows {
		if row.ProjectID != nil {
			seen[*row.ProjectID] = struct{}{}
		}
	}
	return len(seen)
}

// ProjectSorter holds the sort keys of the project portfolio.
var ProjectSorter = query.Sorter[ProjectRollup]{
	Default: "overrun_amount_total",
	Fields: map[string]query.Field[ProjectRollup]{
		"code": {Compare: func(a, b ProjectRollup) int { return strings.Compare(a.Code, b.Code) }},
		"name": {Compare: func(a, b ProjectRollup) int { return strings.Compare(a.Name, b.Name) }},
		"contracts_value_total": {Numeric: true, Compare: func(a, b ProjectRollup) int {
			return money.CompareNull(a.ContractsValueTotal, b.ContractsValueTotal)
		}},
		"overrun_amount_total": {Numeric: true, Compare: func(a, b ProjectRollup) int {
			return a.OverrunAmountTotal.Cmp(b.OverrunAmountTotal)
		}},
	},
	TieBreak: func(a, b ProjectRollup) int { return strings.Compare(a.Code, b.Code) },
}

// ClientSorter holds the sort keys of the client portfolio.
var ClientSorter = query.Sorter[ClientRollup]{
	Default: "overrun_amount_total",
	Fields: map[string]query.Field[ClientRollup]{
		"code": {Compare: func(a, b ClientRollup) int { return strings.Compare(a.Code, b.Code) }},
		"name": {Compare: func(a, b ClientRollup) int { return strings.Compare(a.Name, b.Name) }},
		"contracts_value_total": {Numeric: true, Compare: func(a, b ClientRollup) int {
			return money.CompareNull(a.ContractsValueTotal, b.ContractsValueTotal)
		}},
		"overrun_amount_total": {Numeric: true, Compare: func(a, b ClientRollup) int {
			return a.OverrunAmountTotal.Cmp(b.OverrunAmountTotal)
		}},
	},
	TieBreak: func(a, b ClientRollup) int { return strings.Compare(a.Code, b.Code) },
}
