package health

import (
	"context"
	"time"

	"github.com/rpggio/costwatch/internal/domain/project"
)

// Overview computes the current health of one project.
type Overview interface {
	ProjectHealth(ctx context.Context, tenantID string, proj project.Project) (Health, error)
}

// ProjectSource lists and resolves projects.
type ProjectSource interface {
	List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error)
	Resolve(ctx context.Context, tenantID, id string) (*project.Project, error)
}

// SnapshotRepository persists daily snapshots. Upsert is keyed on
// (tenant, project, snapshot date) and must be atomic.
type SnapshotRepository interface {
	Upsert(ctx context.Context, tenantID string, snap *Snapshot) error
	Get(ctx context.Context, tenantID, projectID, date string) (*Snapshot, error)
	CountByDateAndStatus(ctx context.Context, tenantID, fromDate, toDate string) ([]StatusCount, error)
}

// TaskStats summarizes a project's tasks.
type TaskStats struct {
	Total     int
	Completed int
	Blocked   int
	Overdue   int
}

// TaskRepository summarizes tasks for the default overview.
type TaskRepository interface {
	Stats(ctx context.Context, tenantID, projectID string, today time.Time) (TaskStats, error)
}
