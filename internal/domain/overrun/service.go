package overrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rpggio/costwatch/internal/csvexport"
	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/money"
	"github.com/rpggio/costwatch/internal/query"
)

// CostSource resolves contract cost rows for a tenant.
type CostSource interface {
	Rows(ctx context.Context, tenantID string, filter contract.Filter) ([]contract.Row, error)
}

// Lists is the list mode result.
type Lists struct {
	OverBudget []contract.Row `json:"over_budget_contracts"`
	Overrun    []contract.Row `json:"overrun_contracts"`
}

// ExportHeader is the fixed CSV column order of an overrun export.
var ExportHeader = []string{
	"Code", "Name", "Status", "ClientName", "ProjectName", "Currency",
	"ContractValue", "BudgetTotal", "BudgetVsContractDiff",
	"ActualTotal", "ContractVsActualDiff", "OverrunAmount",
}

// TableSorter holds the sort keys of table and export mode.
var TableSorter = query.Sorter[contract.Row]{
	Default: "overrun_amount",
	Fields: map[string]query.Field[contract.Row]{
		"code": {Compare: byCode},
		"overrun_amount": {Numeric: true, Compare: func(a, b contract.Row) int {
			return money.CompareNull(a.OverrunAmount, b.OverrunAmount)
		}},
		"budget_vs_contract_diff": {Numeric: true, Compare: func(a, b contract.Row) int {
			return money.CompareNull(a.BudgetVsContractDiff, b.BudgetVsContractDiff)
		}},
	},
	TieBreak: byCode,
}

func byCode(a, b contract.Row) int {
	return strings.Compare(a.Code, b.Code)
}

// Service finds contracts whose budget or actual cost exceeds their value.
type Service struct {
	costs  CostSource
	logger *slog.Logger
}

// NewService creates a new overrun service.
func NewService(costs CostSource, logger *slog.Logger) *Service {
	return &Service{costs: costs, logger: logger}
}

// Lists builds the over-budget and overrun lists, each truncated to the limit.
func (s *Service) Lists(ctx context.Context, tenantID string, f ListFilter) (*Lists, error) {
	rows, err := s.costs.Rows(ctx, tenantID, contract.Filter{
		Status:     f.Status,
		Search:     f.Search,
		ValuedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("resolving contract costs: %w", err)
	}

	result := &Lists{OverBudget: []contract.Row{}, Overrun: []contract.Row{}}
	for _, row := range rows {
		if !row.Applicable() {
			continue
		}
		if row.OverBudget() && money.AtLeast(row.BudgetVsContractDiff, f.MinBudgetDiff) {
			result.OverBudget = append(result.OverBudget, row)
		}
		if row.Overrun() && money.AtLeast(row.OverrunAmount, f.MinOverrunAmount) {
			result.Overrun = append(result.Overrun, row)
		}
	}

	limit := clampLimit(f.Limit)
	TableSorter.Sort(result.OverBudget, query.Sort{By: "budget_vs_contract_diff", Direction: query.Desc})
	TableSorter.Sort(result.Overrun, query.Sort{By: "overrun_amount", Direction: query.Desc})
	result.OverBudget = truncate(result.OverBudget, limit)
	result.Overrun = truncate(result.Overrun, limit)
	return result, nil
}

// Table returns one page of qualifying contracts.
func (s *Service) Table(ctx context.Context, tenantID string, f TableFilter, p query.Pagination, sort query.Sort) (query.Page[contract.Row], error) {
	rows, err := s.Export(ctx, tenantID, f, sort)
	if err != nil {
		return query.Page[contract.Row]{}, err
	}
	return query.Paginate(rows, p), nil
}

// Export returns every qualifying contract, sorted, unpaginated.
func (s *Service) Export(ctx context.Context, tenantID string, f TableFilter, sort query.Sort) ([]contract.Row, error) {
	rows, err := s.costs.Rows(ctx, tenantID, contract.Filter{
		Status:     f.Status,
		ClientID:   f.ClientID,
		ProjectID:  f.ProjectID,
		Search:     f.Search,
		ValuedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("resolving contract costs: %w", err)
	}

	kind := normalizeType(f.Type)
	matched := make([]contract.Row, 0, len(rows))
	for _, row := range rows {
		if !row.Applicable() || !qualifies(row, kind) {
			continue
		}
		if !money.AtLeast(row.OverrunAmount, f.MinOverrunAmount) {
			continue
		}
		matched = append(matched, row)
	}

	TableSorter.Sort(matched, sort)
	if s.logger != nil {
		s.logger.Debug("overrun table built", "tenant_id", tenantID, "type", kind, "rows", len(matched))
	}
	return matched, nil
}

func qualifies(row contract.Row, kind Type) bool {
	switch kind {
	case TypeBudget:
		return row.OverBudget()
	case TypeActual:
		return row.Overrun()
	default:
		return row.OverBudget() || row.Overrun()
	}
}

func truncate(rows []contract.Row, limit int) []contract.Row {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// WriteCSV streams rows as a BOM-prefixed CSV with ExportHeader columns.
func WriteCSV(w io.Writer, rows []contract.Row) error {
	cw, err := csvexport.NewWriter(w, ExportHeader)
	if err != nil {
		return err
	}
	for _, row := range rows {
		cur := money.NormalizeCurrency(row.Currency)
		if err := cw.Write([]string{
			row.Code,
			row.Name,
			string(row.Status),
			row.ClientName,
			row.ProjectName,
			cur,
			money.Format(row.ContractValue, cur),
			money.FormatDecimal(row.BudgetTotal, cur),
			money.Format(row.BudgetVsContractDiff, cur),
			money.FormatDecimal(row.ActualTotal, cur),
			money.Format(row.ContractVsActualDiff, cur),
			money.Format(row.OverrunAmount, cur),
		}); err != nil {
			return fmt.Errorf("writing overrun row %s: %w", row.Code, err)
		}
	}
	return cw.Flush()
}
