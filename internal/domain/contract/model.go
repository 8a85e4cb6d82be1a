package contract

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is a contract lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusDraft     Status = "draft"
)

// Valid reports whether s is a known contract status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled, StatusDraft:
		return true
	}
	return false
}

// Contract is a tenant-scoped agreement with an optional total value.
// A null TotalValue excludes the contract from every cost computation.
type Contract struct {
	ID          string              `json:"id"`
	TenantID    string              `json:"-"`
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	Status      Status              `json:"status"`
	Currency    string              `json:"currency"`
	TotalValue  decimal.NullDecimal `json:"-"`
	ClientID    *string             `json:"client_id,omitempty"`
	ClientName  string              `json:"client_name,omitempty"`
	ProjectID   *string             `json:"project_id,omitempty"`
	ProjectName string              `json:"project_name,omitempty"`
	CreatedAt   time.Time           `json:"-"`
	DeletedAt   *time.Time          `json:"-"`
}

// LineStatusCancelled marks a budget line or expense that no longer counts.
const LineStatusCancelled = "cancelled"

// LineItem is a budget line or an expense belonging to one contract.
type LineItem struct {
	ID         string              `json:"id"`
	TenantID   string              `json:"-"`
	ContractID string              `json:"contract_id"`
	Amount     decimal.NullDecimal `json:"amount"`
	Status     string              `json:"status"`
	DeletedAt  *time.Time          `json:"-"`
}

// Active reports whether the line is neither soft-deleted nor cancelled.
func (l LineItem) Active() bool {
	return l.DeletedAt == nil && l.Status != LineStatusCancelled
}

// PaymentStatusPaid marks a settled payment.
const PaymentStatusPaid = "paid"

// Payment is a scheduled payment against a contract.
type Payment struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"-"`
	ContractID string          `json:"contract_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	DueDate    time.Time       `json:"due_date"`
	DeletedAt  *time.Time      `json:"-"`
}

// Overdue reports whether the payment is unpaid and due before today.
// today is truncated to a calendar day in its own location.
func (p Payment) Overdue(today time.Time) bool {
	if p.DeletedAt != nil || p.Status == PaymentStatusPaid {
		return false
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return p.DueDate.Before(start)
}

// Cost is the derived cost picture of one contract. Every field derived
// from the contract value is null when that value is null.
type Cost struct {
	ContractValue        decimal.NullDecimal `json:"contract_value"`
	BudgetTotal          decimal.Decimal     `json:"budget_total"`
	ActualTotal          decimal.Decimal     `json:"actual_total"`
	BudgetVsContractDiff decimal.NullDecimal `json:"budget_vs_contract_diff"`
	ContractVsActualDiff decimal.NullDecimal `json:"contract_vs_actual_diff"`
	OverrunAmount        decimal.NullDecimal `json:"overrun_amount"`
	RemainingValue       decimal.NullDecimal `json:"remaining_value"`
}

// Applicable reports whether the contract has a value to compare against.
func (c Cost) Applicable() bool {
	return c.ContractValue.Valid
}

// OverBudget reports budget_total > contract_value, strictly.
func (c Cost) OverBudget() bool {
	return c.Applicable() && c.BudgetTotal.GreaterThan(c.ContractValue.Decimal)
}

// Overrun reports actual_total > contract_value, strictly.
func (c Cost) Overrun() bool {
	return c.Applicable() && c.ActualTotal.GreaterThan(c.ContractValue.Decimal)
}

// Row pairs a contract with its computed cost.
type Row struct {
	Contract
	Cost
}
