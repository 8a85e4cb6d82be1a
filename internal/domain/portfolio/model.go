package portfolio

import (
	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/money"
	"github.com/shopspring/decimal"
)

// Metrics is the cost rollup of a set of contracts. Contracts without a
// total value are counted in ContractsCount and nowhere else.
type Metrics struct {
	ContractsCount           int                 `json:"contracts_count"`
	ContractsValueTotal      decimal.NullDecimal `json:"contracts_value_total"`
	BudgetTotal              decimal.Decimal     `json:"budget_total"`
	ActualTotal              decimal.Decimal     `json:"actual_total"`
	OverrunAmountTotal       decimal.Decimal     `json:"overrun_amount_total"`
	OverBudgetContractsCount int                 `json:"over_budget_contracts_count"`
	OverrunContractsCount    int                 `json:"overrun_contracts_count"`
	Currency                 string              `json:"currency"`
}

// ProjectRollup is one project's row in the project portfolio.
type ProjectRollup struct {
	ID         string  `json:"id"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	ClientID   *string `json:"client_id,omitempty"`
	ClientName string  `json:"client_name,omitempty"`
	Metrics
}

// ClientRollup is one client's row in the client portfolio.
type ClientRollup struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	ProjectsCount int    `json:"projects_count"`
	Metrics
}

// ProjectSummary is the on-demand rollup of one project.
type ProjectSummary struct {
	ProjectRollup
	OverduePaymentsCount int             `json:"overdue_payments_count"`
	OverduePaymentsTotal decimal.Decimal `json:"overdue_payments_total"`
}

// Rollup aggregates contract cost rows. The currency is the first
// non-default currency among contributing contracts, else the default.
func Rollup(rows []contract.Row) Metrics {
	m := Metrics{
		ContractsCount: len(rows),
		Currency:       money.DefaultCurrency,
	}
	valueTotal := decimal.Zero
	currencySet := false

	for _, row := range rows {
		if !row.Applicable() {
			continue
		}
		valueTotal = valueTotal.Add(row.ContractValue.Decimal)
		m.BudgetTotal = m.BudgetTotal.Add(row.BudgetTotal)
		m.ActualTotal = m.ActualTotal.Add(row.ActualTotal)
		m.OverrunAmountTotal = m.OverrunAmountTotal.Add(row.OverrunAmount.Decimal)
		if row.OverBudget() {
			m.OverBudgetContractsCount++
		}
		if row.Overrun() {
			m.OverrunContractsCount++
		}
		if !currencySet && !money.IsDefaultCurrency(row.Currency) {
			m.Currency = money.NormalizeCurrency(row.Currency)
			currencySet = true
		}
	}

	m.ContractsValueTotal = money.NullIfZero(valueTotal)
	return m
}
