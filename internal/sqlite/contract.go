package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/money"
	"github.com/rpggio/costwatch/internal/repository"
)

// dateLayout is the storage format of calendar-day columns.
const dateLayout = "2006-01-02"

// ContractRepository implements contract.Repository for SQLite
type ContractRepository struct {
	db *DB
}

// NewContractRepository creates a new ContractRepository
func NewContractRepository(db *DB) *ContractRepository {
	return &ContractRepository{db: db}
}

const contractColumns = `
	c.id, c.tenant_id, c.code, c.name, c.status, c.currency, c.total_value,
	c.client_id, COALESCE(cl.name, ''), c.project_id, COALESCE(p.name, ''), c.created_at
`

const contractFrom = `
	FROM contracts c
	LEFT JOIN clients cl ON cl.id = c.client_id AND cl.tenant_id = c.tenant_id AND cl.deleted_at IS NULL
	LEFT JOIN projects p ON p.id = c.project_id AND p.tenant_id = c.tenant_id AND p.deleted_at IS NULL
`

func scanContract(s rowScanner) (contract.Contract, error) {
	var c contract.Contract
	var clientID, projectID sql.NullString
	err := s.Scan(
		&c.ID,
		&c.TenantID,
		&c.Code,
		&c.Name,
		&c.Status,
		&c.Currency,
		&c.TotalValue,
		&clientID,
		&c.ClientName,
		&projectID,
		&c.ProjectName,
		&c.CreatedAt,
	)
	if clientID.Valid {
		c.ClientID = &clientID.String
	}
	if projectID.Valid {
		c.ProjectID = &projectID.String
	}
	return c, err
}

// CreateContract creates a new contract
func (r *ContractRepository) CreateContract(ctx context.Context, tenantID string, c *contract.Contract) error {
	query := `
		INSERT INTO contracts (id, tenant_id, code, name, status, currency, total_value, client_id, project_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if !c.Status.Valid() {
		return fmt.Errorf("contract status %q: %w", c.Status, repository.ErrInvalidInput)
	}
	currency := money.NormalizeCurrency(c.Currency)
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		tenantID,
		c.Code,
		c.Name,
		string(c.Status),
		currency,
		c.TotalValue,
		nullableString(c.ClientID),
		nullableString(c.ProjectID),
		timestamp(c.CreatedAt),
	)
	if err != nil {
		return insertError("contract", err)
	}

	c.TenantID = tenantID
	c.Currency = currency
	return nil
}

// CreateBudgetLine creates a budget line under a contract
func (r *ContractRepository) CreateBudgetLine(ctx context.Context, tenantID string, line *contract.LineItem) error {
	return r.createLine(ctx, "budget_lines", tenantID, line)
}

// CreateExpense creates an expense under a contract
func (r *ContractRepository) CreateExpense(ctx context.Context, tenantID string, line *contract.LineItem) error {
	return r.createLine(ctx, "expenses", tenantID, line)
}

func (r *ContractRepository) createLine(ctx context.Context, table, tenantID string, line *contract.LineItem) error {
	status := line.Status
	if status == "" {
		status = "active"
	}
	query := `INSERT INTO ` + table + ` (id, tenant_id, contract_id, amount, status) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, line.ID, tenantID, line.ContractID, line.Amount, status); err != nil {
		return insertError(table, err)
	}
	line.TenantID = tenantID
	line.Status = status
	return nil
}

// CreatePayment creates a scheduled payment under a contract
func (r *ContractRepository) CreatePayment(ctx context.Context, tenantID string, pay *contract.Payment) error {
	status := pay.Status
	if status == "" {
		status = "pending"
	}
	query := `INSERT INTO payments (id, tenant_id, contract_id, amount, status, due_date) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		pay.ID,
		tenantID,
		pay.ContractID,
		pay.Amount.String(),
		status,
		pay.DueDate.Format(dateLayout),
	)
	if err != nil {
		return insertError("payment", err)
	}
	pay.TenantID = tenantID
	pay.Status = status
	return nil
}

// Get retrieves a non-deleted contract of the tenant by ID
func (r *ContractRepository) Get(ctx context.Context, tenantID, id string) (*contract.Contract, error) {
	query := `SELECT ` + contractColumns + contractFrom + ` WHERE c.id = ? AND c.tenant_id = ? AND c.deleted_at IS NULL`

	c, err := scanContract(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return &c, nil
}

// Lookup retrieves a non-deleted contract regardless of tenant
func (r *ContractRepository) Lookup(ctx context.Context, id string) (*contract.Contract, error) {
	query := `SELECT ` + contractColumns + contractFrom + ` WHERE c.id = ? AND c.deleted_at IS NULL`

	c, err := scanContract(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up contract: %w", err)
	}
	return &c, nil
}

// List returns the tenant's non-deleted contracts matching filter, ordered by code
func (r *ContractRepository) List(ctx context.Context, tenantID string, filter contract.Filter) ([]contract.Contract, error) {
	w := &where{}
	w.tenant("c", tenantID)
	w.notDeleted("c")
	w.statusEquals("c", string(filter.Status))
	w.eq("c.client_id", filter.ClientID)
	w.eq("c.project_id", filter.ProjectID)
	w.search(filter.Search, "c.code", "c.name", "cl.name")
	if filter.ValuedOnly {
		w.add("c.total_value IS NOT NULL")
	}

	query := `SELECT ` + contractColumns + contractFrom + w.String() + ` ORDER BY c.code, c.id`
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []contract.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contract rows: %w", err)
	}
	return contracts, nil
}

// ActiveBudgetLines returns the contract's non-deleted, non-cancelled budget lines
func (r *ContractRepository) ActiveBudgetLines(ctx context.Context, tenantID, contractID string) ([]contract.LineItem, error) {
	return r.activeLines(ctx, "budget_lines", tenantID, contractID)
}

// ActiveExpenses returns the contract's non-deleted, non-cancelled expenses
func (r *ContractRepository) ActiveExpenses(ctx context.Context, tenantID, contractID string) ([]contract.LineItem, error) {
	return r.activeLines(ctx, "expenses", tenantID, contractID)
}

func (r *ContractRepository) activeLines(ctx context.Context, table, tenantID, contractID string) ([]contract.LineItem, error) {
	w := &where{}
	w.tenant("", tenantID)
	w.eq("contract_id", contractID)
	w.notDeleted("")
	w.notCancelled("")

	query := `SELECT id, tenant_id, contract_id, amount, status FROM ` + table + w.String() + ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var lines []contract.LineItem
	for rows.Next() {
		var line contract.LineItem
		if err := rows.Scan(&line.ID, &line.TenantID, &line.ContractID, &line.Amount, &line.Status); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}
	return lines, nil
}

// OverduePayments returns unpaid, non-deleted payments due before today
// whose contract is not deleted.
func (r *ContractRepository) OverduePayments(ctx context.Context, tenantID string, filter contract.PaymentFilter, today time.Time) ([]contract.Payment, error) {
	w := &where{}
	w.tenant("pay", tenantID)
	w.notDeleted("pay")
	w.notDeleted("c")
	w.add("pay.status != ?", contract.PaymentStatusPaid)
	w.add("pay.due_date < ?", today.Format(dateLayout))
	w.eq("pay.contract_id", filter.ContractID)
	w.eq("c.project_id", filter.ProjectID)
	w.eq("c.client_id", filter.ClientID)

	query := `
		SELECT pay.id, pay.tenant_id, pay.contract_id, pay.amount, pay.status, pay.due_date
		FROM payments pay
		JOIN contracts c ON c.id = pay.contract_id AND c.tenant_id = pay.tenant_id
	` + w.String() + ` ORDER BY pay.due_date, pay.id`

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue payments: %w", err)
	}
	defer rows.Close()

	var payments []contract.Payment
	for rows.Next() {
		var pay contract.Payment
		var due string
		if err := rows.Scan(&pay.ID, &pay.TenantID, &pay.ContractID, &pay.Amount, &pay.Status, &due); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		pay.DueDate, err = time.ParseInLocation(dateLayout, due, today.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid due date %q on payment %s: %w", due, pay.ID, err)
		}
		payments = append(payments, pay)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}

// SoftDelete marks a contract deleted
func (r *ContractRepository) SoftDelete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contracts SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND tenant_id = ? AND deleted_at IS NULL`,
		id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
