package health

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rpggio/costwatch/internal/domain/portfolio"
	"github.com/rpggio/costwatch/internal/domain/project"
)

const (
	warningBlockedRatio  = 0.10
	criticalBlockedRatio = 0.25
	criticalOverdueRatio = 0.25
)

// SummarySource returns a project's cost rollup, or nil when it has no contracts.
type SummarySource interface {
	ProjectSummary(ctx context.Context, tenantID, projectID string) (*portfolio.ProjectSummary, error)
}

// TaskCostOverview classifies schedule health from tasks and cost health
// from the project's contract rollup.
type TaskCostOverview struct {
	tasks     TaskRepository
	summaries SummarySource
	now       func() time.Time
}

// NewTaskCostOverview creates the default overview. A nil now uses time.Now.
func NewTaskCostOverview(tasks TaskRepository, summaries SummarySource, now func() time.Time) *TaskCostOverview {
	if now == nil {
		now = time.Now
	}
	return &TaskCostOverview{tasks: tasks, summaries: summaries, now: now}
}

// ProjectHealth implements Overview.
func (o *TaskCostOverview) ProjectHealth(ctx context.Context, tenantID string, proj project.Project) (Health, error) {
	stats, err := o.tasks.Stats(ctx, tenantID, proj.ID, o.now())
	if err != nil {
		return Health{}, fmt.Errorf("loading task stats: %w", err)
	}
	summary, err := o.summaries.ProjectSummary(ctx, tenantID, proj.ID)
	if err != nil {
		return Health{}, fmt.Errorf("loading cost summary: %w", err)
	}

	h := Health{
		ScheduleStatus: ScheduleStatus(stats),
		CostStatus:     CostStatus(summary),
		OverdueTasks:   stats.Overdue,
	}
	if stats.Total > 0 {
		h.TasksCompletionRate = ratio(stats.Completed, stats.Total)
		h.BlockedTasksRatio = ratio(stats.Blocked, stats.Total)
	}
	h.OverallStatus = Worst(h.ScheduleStatus, h.CostStatus)
	return h, nil
}

// ScheduleStatus classifies task progress.
func ScheduleStatus(stats TaskStats) Status {
	if stats.Total == 0 {
		return StatusNoData
	}
	blocked := float64(stats.Blocked) / float64(stats.Total)
	overdue := float64(stats.Overdue) / float64(stats.Total)
	switch {
	case overdue >= criticalOverdueRatio || blocked >= criticalBlockedRatio:
		return StatusCritical
	case stats.Overdue > 0 || blocked >= warningBlockedRatio:
		return StatusWarning
	}
	return StatusGood
}

// CostStatus classifies a project's contract rollup.
func CostStatus(summary *portfolio.ProjectSummary) Status {
	if summary == nil {
		return StatusNoData
	}
	switch {
	case summary.OverrunContractsCount > 0:
		return StatusCritical
	case summary.OverBudgetContractsCount > 0 || summary.OverduePaymentsCount > 0:
		return StatusWarning
	}
	return StatusGood
}

// ratio rounds to four decimal places.
func ratio(part, total int) float64 {
	return math.Round(float64(part)/float64(total)*10000) / 10000
}
