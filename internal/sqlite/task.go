package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/costwatch/internal/domain/health"
)

// Task statuses stored in the tasks table.
const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskBlocked    = "blocked"
	TaskDone       = "done"
	TaskCancelled  = "cancelled"
)

// Task is a unit of project work feeding schedule health.
type Task struct {
	ID        string
	ProjectID string
	Title     string
	Status    string
	DueDate   *time.Time
}

// TaskRepository implements health.TaskRepository for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, tenantID string, task *Task) error {
	var due any
	if task.DueDate != nil {
		due = task.DueDate.Format(dateLayout)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, tenant_id, project_id, title, status, due_date) VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID, tenantID, task.ProjectID, task.Title, task.Status, due)
	if err != nil {
		return insertError("task", err)
	}
	return nil
}

// Stats summarizes the project's non-deleted, non-cancelled tasks. A task
// is overdue when it is open and due before today.
func (r *TaskRepository) Stats(ctx context.Context, tenantID, projectID string, today time.Time) (health.TaskStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status != ? AND due_date IS NOT NULL AND due_date < ? THEN 1 ELSE 0 END), 0)
		FROM tasks
		WHERE tenant_id = ? AND project_id = ? AND deleted_at IS NULL AND status != ?
	`

	var stats health.TaskStats
	var total, completed, blocked, overdue sql.NullInt64
	err := r.db.QueryRowContext(ctx, query,
		TaskDone,
		TaskBlocked,
		TaskDone,
		today.Format(dateLayout),
		tenantID,
		projectID,
		TaskCancelled,
	).Scan(&total, &completed, &blocked, &overdue)
	if err != nil {
		return stats, fmt.Errorf("failed to summarize tasks: %w", err)
	}

	stats.Total = int(total.Int64)
	stats.Completed = int(completed.Int64)
	stats.Blocked = int(blocked.Int64)
	stats.Overdue = int(overdue.Int64)
	return stats, nil
}
