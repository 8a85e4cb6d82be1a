package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/costwatch/internal/domain/client"
	"github.com/rpggio/costwatch/internal/repository"
)

// ClientRepository implements client.Repository for SQLite
type ClientRepository struct {
	db *DB
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create creates a new client
func (r *ClientRepository) Create(ctx context.Context, tenantID string, c *client.Client) error {
	query := `INSERT INTO clients (id, tenant_id, code, name, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, c.ID, tenantID, c.Code, c.Name, timestamp(c.CreatedAt)); err != nil {
		return insertError("client", err)
	}
	c.TenantID = tenantID
	return nil
}

// Get retrieves a non-deleted client by ID
func (r *ClientRepository) Get(ctx context.Context, tenantID, id string) (*client.Client, error) {
	query := `
		SELECT id, tenant_id, code, name, created_at
		FROM clients
		WHERE id = ? AND tenant_id = ? AND deleted_at IS NULL
	`

	var c client.Client
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(&c.ID, &c.TenantID, &c.Code, &c.Name, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

// List returns the tenant's non-deleted clients ordered by code
func (r *ClientRepository) List(ctx context.Context, tenantID string, opts client.ListOptions) ([]client.Client, error) {
	w := &where{}
	w.tenant("", tenantID)
	w.notDeleted("")
	w.eq("id", opts.ID)
	w.search(opts.Search, "code", "name")

	query := `SELECT id, tenant_id, code, name, created_at FROM clients` + w.String() + ` ORDER BY code, id`
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []client.Client
	for rows.Next() {
		var c client.Client
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Code, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}
	return clients, nil
}
