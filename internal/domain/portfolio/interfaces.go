package portfolio

import (
	"context"
	"time"

	"github.com/rpggio/costwatch/internal/domain/client"
	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/project"
)

// ProjectSource lists and resolves projects.
type ProjectSource interface {
	List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error)
	Resolve(ctx context.Context, tenantID, id string) (*project.Project, error)
}

// ClientSource lists clients.
type ClientSource interface {
	List(ctx context.Context, tenantID string, opts client.ListOptions) ([]client.Client, error)
}

// CostSource resolves contract cost rows.
type CostSource interface {
	Rows(ctx context.Context, tenantID string, filter contract.Filter) ([]contract.Row, error)
}

// PaymentSource lists overdue payments.
type PaymentSource interface {
	OverduePayments(ctx context.Context, tenantID string, filter contract.PaymentFilter, today time.Time) ([]contract.Payment, error)
}
