package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/costwatch/internal/domain/project"
	"github.com/rpggio/costwatch/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	p.id, p.tenant_id, p.code, p.name, p.status, p.client_id,
	COALESCE(c.name, ''), p.created_at
`

const projectFrom = `
	FROM projects p
	LEFT JOIN clients c ON c.id = p.client_id AND c.tenant_id = p.tenant_id AND c.deleted_at IS NULL
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(s rowScanner) (project.Project, error) {
	var proj project.Project
	var clientID sql.NullString
	err := s.Scan(
		&proj.ID,
		&proj.TenantID,
		&proj.Code,
		&proj.Name,
		&proj.Status,
		&clientID,
		&proj.ClientName,
		&proj.CreatedAt,
	)
	if clientID.Valid {
		proj.ClientID = &clientID.String
	}
	return proj, err
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, tenant_id, code, name, status, client_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	status := proj.Status
	if status == "" {
		status = "active"
	}
	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		tenantID,
		proj.Code,
		proj.Name,
		status,
		nullableString(proj.ClientID),
		timestamp(proj.CreatedAt),
	)
	if err != nil {
		return insertError("project", err)
	}

	proj.TenantID = tenantID
	proj.Status = status
	return nil
}

// Get retrieves a non-deleted project of the tenant by ID
func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + projectFrom + ` WHERE p.id = ? AND p.tenant_id = ? AND p.deleted_at IS NULL`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &proj, nil
}

// Lookup retrieves a non-deleted project regardless of tenant. It is only
// used to tell a foreign project apart from a missing one.
func (r *ProjectRepository) Lookup(ctx context.Context, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + projectFrom + ` WHERE p.id = ? AND p.deleted_at IS NULL`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up project: %w", err)
	}
	return &proj, nil
}

// List returns the tenant's non-deleted projects ordered by code
func (r *ProjectRepository) List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error) {
	w := &where{}
	w.tenant("p", tenantID)
	w.notDeleted("p")
	w.eq("p.id", opts.ID)
	w.eq("p.client_id", opts.ClientID)
	w.statusEquals("p", opts.Status)
	w.search(opts.Search, "p.code", "p.name")

	query := `SELECT ` + projectColumns + projectFrom + w.String() + ` ORDER BY p.code, p.id`
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, proj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// SoftDelete marks a project deleted
func (r *ProjectRepository) SoftDelete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND tenant_id = ? AND deleted_at IS NULL`,
		id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
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
