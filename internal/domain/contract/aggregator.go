package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/costwatch/internal/domain/tenant"
	"github.com/rpggio/costwatch/internal/money"
	"github.com/rpggio/costwatch/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds per-contract line-item fetches in CostAll.
const DefaultConcurrency = 4

// Compute derives the cost of one contract from its line items.
// Inactive lines are ignored; null line amounts count as zero.
func Compute(c Contract, budgetLines, expenses []LineItem) Cost {
	cost := Cost{
		ContractValue: c.TotalValue,
		BudgetTotal:   sumActive(budgetLines),
		ActualTotal:   sumActive(expenses),
	}
	if !c.TotalValue.Valid {
		return cost
	}

	value := c.TotalValue.Decimal
	cost.BudgetVsContractDiff = money.Some(money.Diff(cost.BudgetTotal, value))
	cost.ContractVsActualDiff = money.Some(money.Diff(value, cost.ActualTotal))
	cost.OverrunAmount = money.Some(money.PositiveOverrun(cost.ActualTotal, value))
	cost.RemainingValue = money.Some(money.ClampedRemaining(value, cost.ActualTotal))
	return cost
}

func sumActive(lines []LineItem) decimal.Decimal {
	amounts := make([]decimal.NullDecimal, 0, len(lines))
	for _, line := range lines {
		if line.Active() {
			amounts = append(amounts, line.Amount)
		}
	}
	return money.Sum(amounts...)
}

// Aggregator resolves contract costs against the repository.
type Aggregator struct {
	repo        Repository
	concurrency int
	logger      *slog.Logger
}

// NewAggregator creates a new contract cost aggregator.
func NewAggregator(repo Repository, concurrency int, logger *slog.Logger) *Aggregator {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Aggregator{repo: repo, concurrency: concurrency, logger: logger}
}

// Cost fetches the active line items of c exactly once and computes its cost.
func (a *Aggregator) Cost(ctx context.Context, tenantID string, c Contract) (Cost, error) {
	if err := tenant.Check(tenantID, c.TenantID, "contract", c.ID); err != nil {
		return Cost{}, err
	}

	budgetLines, err := a.repo.ActiveBudgetLines(ctx, tenantID, c.ID)
	if err != nil {
		return Cost{}, fmt.Errorf("loading budget lines for contract %s: %w", c.ID, err)
	}
	expenses, err := a.repo.ActiveExpenses(ctx, tenantID, c.ID)
	if err != nil {
		return Cost{}, fmt.Errorf("loading expenses for contract %s: %w", c.ID, err)
	}
	return Compute(c, budgetLines, expenses), nil
}

// CostAll computes every contract's cost with bounded concurrency.
// Results keep input order and nothing is returned unless all succeed.
func (a *Aggregator) CostAll(ctx context.Context, tenantID string, contracts []Contract) ([]Row, error) {
	rows := make([]Row, len(contracts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range contracts {
		g.Go(func() error {
			cost, err := a.Cost(gctx, tenantID, contracts[i])
			if err != nil {
				return err
			}
			rows[i] = Row{Contract: contracts[i], Cost: cost}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Rows lists the tenant's contracts matching filter and computes their costs.
func (a *Aggregator) Rows(ctx context.Context, tenantID string, filter Filter) ([]Row, error) {
	contracts, err := a.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}
	rows, err := a.CostAll(ctx, tenantID, contracts)
	if err != nil {
		return nil, err
	}
	if a.logger != nil {
		a.logger.Debug("contract costs resolved", "tenant_id", tenantID, "contracts", len(rows))
	}
	return rows, nil
}

// ContractCost resolves one contract by ID. A contract owned by another
// tenant yields tenant.ErrMismatch rather than not-found.
func (a *Aggregator) ContractCost(ctx context.Context, tenantID, contractID string) (*Row, error) {
	c, err := a.repo.Get(ctx, tenantID, contractID)
	if errors.Is(err, repository.ErrNotFound) {
		owned, lookupErr := a.repo.Lookup(ctx, contractID)
		if lookupErr == nil {
			if err := tenant.Check(tenantID, owned.TenantID, "contract", contractID); err != nil {
				return nil, err
			}
			return nil, ErrContractNotFound
		}
		if errors.Is(lookupErr, repository.ErrNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("looking up contract: %w", lookupErr)
	}
	if err != nil {
		return nil, fmt.Errorf("getting contract: %w", err)
	}

	cost, err := a.Cost(ctx, tenantID, *c)
	if err != nil {
		return nil, err
	}
	return &Row{Contract: *c, Cost: cost}, nil
}
