package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/costwatch/internal/cache"
	"github.com/rpggio/costwatch/internal/domain/project"
)

const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 90
)

// Options configures optional behavior of the health service.
type Options struct {
	// Cache holds portfolio results per tenant. Nil or a zero TTL disables caching.
	Cache     *cache.Cache
	CacheTTL  time.Duration
	OnRebuild RebuildHook
	OnSweep   SweepHook
	// Now returns the current time in the server's timezone.
	Now func() time.Time
}

// Service fans out project health, writes daily snapshots and
// aggregates snapshot history.
type Service struct {
	projects  ProjectSource
	overview  Overview
	snapshots SnapshotRepository
	cache     *cache.Cache
	ttl       time.Duration
	onRebuild RebuildHook
	onSweep   SweepHook
	now       func() time.Time
	logger    *slog.Logger
}

// NewService creates a new health service.
func NewService(projects ProjectSource, overview Overview, snapshots SnapshotRepository, opts Options, logger *slog.Logger) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		projects:  projects,
		overview:  overview,
		snapshots: snapshots,
		cache:     opts.Cache,
		ttl:       opts.CacheTTL,
		onRebuild: opts.OnRebuild,
		onSweep:   opts.OnSweep,
		now:       now,
		logger:    logger,
	}
}

func portfolioKey(tenantID string) string {
	return "health:portfolio:" + tenantID
}

// Portfolio returns the health of every non-deleted project of the tenant.
func (s *Service) Portfolio(ctx context.Context, tenantID string) ([]ProjectHealth, error) {
	onMiss := func(result []ProjectHealth, took time.Duration) {
		if s.onRebuild != nil {
			s.onRebuild(ctx, RebuildEvent{TenantID: tenantID, ProjectCount: len(result), Duration: took})
		}
	}
	build := func(ctx context.Context) ([]ProjectHealth, error) {
		return s.buildPortfolio(ctx, tenantID)
	}

	if s.cache == nil {
		start := s.now()
		result, err := build(ctx)
		if err != nil {
			return nil, err
		}
		onMiss(result, s.now().Sub(start))
		return result, nil
	}
	return cache.Remember(ctx, s.cache, portfolioKey(tenantID), s.ttl, build, onMiss)
}

// InvalidatePortfolio drops the tenant's cached portfolio.
func (s *Service) InvalidatePortfolio(tenantID string) {
	if s.cache != nil {
		s.cache.Delete(portfolioKey(tenantID))
	}
}

func (s *Service) buildPortfolio(ctx context.Context, tenantID string) ([]ProjectHealth, error) {
	projects, err := s.projects.List(ctx, tenantID, project.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	result := make([]ProjectHealth, 0, len(projects))
	for _, proj := range projects {
		h, err := s.overview.ProjectHealth(ctx, tenantID, proj)
		if err != nil {
			return nil, fmt.Errorf("computing health for project %s: %w", proj.ID, err)
		}
		result = append(result, ProjectHealth{Project: proj, Health: h})
	}
	return result, nil
}

// Snapshot records today's health of one project. Repeated calls on the
// same day overwrite the existing snapshot.
func (s *Service) Snapshot(ctx context.Context, tenantID, projectID string) (*Snapshot, error) {
	proj, err := s.projects.Resolve(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	return s.snapshotProject(ctx, tenantID, *proj)
}

func (s *Service) snapshotProject(ctx context.Context, tenantID string, proj project.Project) (*Snapshot, error) {
	h, err := s.overview.ProjectHealth(ctx, tenantID, proj)
	if err != nil {
		return nil, fmt.Errorf("computing health for project %s: %w", proj.ID, err)
	}

	now := s.now()
	snap := &Snapshot{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		ProjectID:    proj.ID,
		SnapshotDate: now.Format(DateLayout),
		Health:       h,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.snapshots.Upsert(ctx, tenantID, snap); err != nil {
		return nil, fmt.Errorf("saving snapshot for project %s: %w", proj.ID, err)
	}
	return snap, nil
}

// SnapshotAll snapshots every non-deleted project of the tenant. Failures
// are logged and skipped; the result counts successful snapshots only.
func (s *Service) SnapshotAll(ctx context.Context, tenantID string) (int, error) {
	start := s.now()
	projects, err := s.projects.List(ctx, tenantID, project.ListOptions{})
	if err != nil {
		return 0, fmt.Errorf("listing projects: %w", err)
	}

	count := 0
	for _, proj := range projects {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if _, err := s.snapshotProject(ctx, tenantID, proj); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return count, err
			}
			if s.logger != nil {
				s.logger.Warn("project snapshot failed", "tenant_id", tenantID, "project_id", proj.ID, "error", err)
			}
			continue
		}
		count++
	}

	if s.logger != nil {
		s.logger.Info("project snapshots taken", "tenant_id", tenantID, "projects", len(projects), "snapshotted", count)
	}
	if s.onSweep != nil {
		s.onSweep(ctx, SweepEvent{TenantID: tenantID, ProjectCount: len(projects), Snapshotted: count, Duration: s.now().Sub(start)})
	}
	return count, nil
}

// ClampDays applies the history window bounds: 0 means the default.
func ClampDays(days int) int {
	switch {
	case days == 0:
		return DefaultHistoryDays
	case days < 1:
		return 1
	case days > MaxHistoryDays:
		return MaxHistoryDays
	}
	return days
}

// History returns per-day status counts over the last days calendar days,
// today included. Days without counted snapshots produce no row.
func (s *Service) History(ctx context.Context, tenantID string, days int) ([]HistoryPoint, error) {
	days = ClampDays(days)
	today := s.now()
	from := today.AddDate(0, 0, -(days - 1)).Format(DateLayout)
	to := today.Format(DateLayout)

	counts, err := s.snapshots.CountByDateAndStatus(ctx, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("counting snapshots: %w", err)
	}
	return aggregateHistory(counts), nil
}

func aggregateHistory(counts []StatusCount) []HistoryPoint {
	byDate := make(map[string]*HistoryPoint)
	for _, c := range counts {
		var bucket *int
		point := byDate[c.Date]
		if point == nil {
			point = &HistoryPoint{Date: c.Date}
		}
		switch c.Status {
		case StatusGood:
			bucket = &point.Good
		case StatusWarning:
			bucket = &point.Warning
		case StatusCritical:
			bucket = &point.Critical
		default:
			continue
		}
		*bucket += c.Count
		point.Total += c.Count
		byDate[c.Date] = point
	}

	points := make([]HistoryPoint, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}
