package health

import (
	"context"
	"time"

	"github.com/rpggio/costwatch/internal/domain/project"
)

// Status is a health classification.
type Status string

const (
	StatusGood     Status = "good"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusNoData   Status = "no_data"
)

func (s Status) severity() int {
	switch s {
	case StatusGood:
		return 1
	case StatusWarning:
		return 2
	case StatusCritical:
		return 3
	}
	return 0
}

// Worst returns the most severe status, ignoring no_data unless nothing else is known.
func Worst(statuses ...Status) Status {
	worst := StatusNoData
	for _, s := range statuses {
		if s.severity() > worst.severity() {
			worst = s
		}
	}
	return worst
}

// Health is the classification of one project.
type Health struct {
	ScheduleStatus      Status  `json:"schedule_status"`
	CostStatus          Status  `json:"cost_status"`
	OverallStatus       Status  `json:"overall_status"`
	TasksCompletionRate float64 `json:"tasks_completion_rate"`
	BlockedTasksRatio   float64 `json:"blocked_tasks_ratio"`
	OverdueTasks        int     `json:"overdue_tasks"`
}

// ProjectHealth pairs a project with its current health.
type ProjectHealth struct {
	Project project.Project `json:"project"`
	Health  Health          `json:"health"`
}

// DateLayout is the calendar-day format of snapshot dates.
const DateLayout = "2006-01-02"

// Snapshot is the persisted health of one project on one calendar day.
type Snapshot struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	ProjectID    string    `json:"project_id"`
	SnapshotDate string    `json:"snapshot_date"`
	Health
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusCount is the number of snapshots with one overall status on one day.
type StatusCount struct {
	Date   string
	Status Status
	Count  int
}

// HistoryPoint summarizes one day of snapshots. no_data is not counted.
type HistoryPoint struct {
	Date     string `json:"date"`
	Good     int    `json:"good"`
	Warning  int    `json:"warning"`
	Critical int    `json:"critical"`
	Total    int    `json:"total"`
}

// RebuildEvent describes one portfolio cache rebuild.
type RebuildEvent struct {
	TenantID     string
	ProjectCount int
	Duration     time.Duration
}

// SweepEvent describes one tenant-wide snapshot sweep.
type SweepEvent struct {
	TenantID     string
	ProjectCount int
	Snapshotted  int
	Duration     time.Duration
}

// SweepHook is called after SnapshotAll finishes.
type SweepHook func(ctx context.Context, ev SweepEvent)

// RebuildHook observes portfolio rebuilds. It never runs on cache hits.
type RebuildHook func(ctx context.Context, ev RebuildEvent)
