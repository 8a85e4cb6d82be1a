package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/costwatch/internal/domain/health"
	"github.com/rpggio/costwatch/internal/repository"
)

// SnapshotRepository implements health.SnapshotRepository for SQLite
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Upsert inserts the snapshot or overwrites the one already recorded for
// the same project and day in a single statement. On overwrite the stored
// ID and created_at are kept and copied back into snap.
func (r *SnapshotRepository) Upsert(ctx context.Context, tenantID string, snap *health.Snapshot) error {
	query := `
		INSERT INTO project_health_snapshots (
			id, tenant_id, project_id, snapshot_date,
			schedule_status, cost_status, overall_status,
			tasks_completion_rate, blocked_tasks_ratio, overdue_tasks,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, project_id, snapshot_date) DO UPDATE SET
			schedule_status = excluded.schedule_status,
			cost_status = excluded.cost_status,
			overall_status = excluded.overall_status,
			tasks_completion_rate = excluded.tasks_completion_rate,
			blocked_tasks_ratio = excluded.blocked_tasks_ratio,
			overdue_tasks = excluded.overdue_tasks,
			updated_at = excluded.updated_at
		RETURNING id
	`

	createdAt := timestamp(snap.CreatedAt)
	updatedAt := timestamp(snap.UpdatedAt)
	err := r.db.QueryRowContext(ctx, query,
		snap.ID,
		tenantID,
		snap.ProjectID,
		snap.SnapshotDate,
		string(snap.ScheduleStatus),
		string(snap.CostStatus),
		string(snap.OverallStatus),
		snap.TasksCompletionRate,
		snap.BlockedTasksRatio,
		snap.OverdueTasks,
		createdAt,
		updatedAt,
	).Scan(&snap.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("failed to upsert snapshot: %w", repository.ErrForeignKeyViolation)
		}
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT created_at FROM project_health_snapshots WHERE id = ?`, snap.ID,
	).Scan(&snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	snap.TenantID = tenantID
	snap.UpdatedAt = updatedAt
	return nil
}

// Get retrieves the snapshot of one project on one day
func (r *SnapshotRepository) Get(ctx context.Context, tenantID, projectID, date string) (*health.Snapshot, error) {
	query := `
		SELECT
			id, tenant_id, project_id, snapshot_date,
			schedule_status, cost_status, overall_status,
			tasks_completion_rate, blocked_tasks_ratio, overdue_tasks,
			created_at, updated_at
		FROM project_health_snapshots
		WHERE tenant_id = ? AND project_id = ? AND snapshot_date = ?
	`

	var snap health.Snapshot
	err := r.db.QueryRowContext(ctx, query, tenantID, projectID, date).Scan(
		&snap.ID,
		&snap.TenantID,
		&snap.ProjectID,
		&snap.SnapshotDate,
		&snap.ScheduleStatus,
		&snap.CostStatus,
		&snap.OverallStatus,
		&snap.TasksCompletionRate,
		&snap.BlockedTasksRatio,
		&snap.OverdueTasks,
		&snap.CreatedAt,
		&snap.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &snap, nil
}

// CountByDateAndStatus counts snapshots per day and overall status within
// [fromDate, toDate], both inclusive.
func (r *SnapshotRepository) CountByDateAndStatus(ctx context.Context, tenantID, fromDate, toDate string) ([]health.StatusCount, error) {
	query := `
		SELECT snapshot_date, overall_status, COUNT(*)
		FROM project_health_snapshots
		WHERE tenant_id = ? AND snapshot_date >= ? AND snapshot_date <= ?
		GROUP BY snapshot_date, overall_status
		ORDER BY snapshot_date, overall_status
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count snapshots: %w", err)
	}
	defer rows.Close()

	var counts []health.StatusCount
	for rows.Next() {
		var c health.StatusCount
		if err := rows.Scan(&c.Date, &c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot counts: %w", err)
	}
	return counts, nil
}
