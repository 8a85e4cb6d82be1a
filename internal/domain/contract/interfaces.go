package contract

import (
	"context"
	"time"
)

// Repository provides tenant-scoped reads of contracts and their line items.
// Lookup is the one unscoped read and exists only to detect tenant mismatches.
type Repository interface {
	Get(ctx context.Context, tenantID, id string) (*Contract, error)
	Lookup(ctx context.Context, id string) (*Contract, error)
	List(ctx context.Context, tenantID string, filter Filter) ([]Contract, error)
	ActiveBudgetLines(ctx context.Context, tenantID, contractID string) ([]LineItem, error)
	ActiveExpenses(ctx context.Context, tenantID, contractID string) ([]LineItem, error)
	OverduePayments(ctx context.Context, tenantID string, filter PaymentFilter, today time.Time) ([]Payment, error)
}
