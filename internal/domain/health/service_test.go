package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/costwatch/internal/cache"
	"github.com/rpggio/costwatch/internal/domain/health"
	"github.com/rpggio/costwatch/internal/domain/project"
	"github.com/rpggio/costwatch/internal/domain/tenant"
	"github.com/rpggio/costwatch/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 6, 3, 14, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type stubProjects struct {
	projects []project.Project
	err      error
}

func (s stubProjects) List(context.Context, string, project.ListOptions) ([]project.Project, error) {
	return s.projects, s.err
}

func (s stubProjects) Resolve(_ context.Context, tenantID, id string) (*project.Project, error) {
	for _, p := range s.projects {
		if p.ID == id {
			if err := tenant.Check(tenantID, p.TenantID, "project", id); err != nil {
				return nil, err
			}
			return &p, nil
		}
	}
	return nil, project.ErrProjectNotFound
}

type stubOverview struct {
	mu     sync.Mutex
	calls  int
	health map[string]health.Health
	fail   map[string]error
}

func (s *stubOverview) ProjectHealth(_ context.Context, _ string, proj project.Project) (health.Health, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if err := s.fail[proj.ID]; err != nil {
		return health.Health{}, err
	}
	return s.health[proj.ID], nil
}

func projects(ids ...string) []project.Project {
	out := make([]project.Project, 0, len(ids))
	for _, id := range ids {
		out = append(out, project.Project{ID: id, TenantID: "tenant1", Code: "P-" + id})
	}
	return out
}

func TestPortfolio_CachedRebuildEmitsOnce(t *testing.T) {
	ctx := context.Background()
	overview := &stubOverview{health: map[string]health.Health{
		"a": {OverallStatus: health.StatusGood},
		"b": {OverallStatus: health.StatusCritical},
	}}

	var events []health.RebuildEvent
	svc := health.NewService(stubProjects{projects: projects("a", "b")}, overview, &mocks.SnapshotRepository{}, health.Options{
		Cache:     cache.New(),
		CacheTTL:  time.Minute,
		OnRebuild: func(_ context.Context, ev health.RebuildEvent) { events = append(events, ev) },
		Now:       clock,
	}, nil)

	first, err := svc.Portfolio(ctx, "tenant1")
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, health.StatusCritical, first[1].Health.OverallStatus)

	second, err := svc.Portfolio(ctx, "tenant1")
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.Equal(t, 2, overview.calls)
	require.Len(t, events, 1)
	require.Equal(t, "tenant1", events[0].TenantID)
	require.Equal(t, 2, events[0].ProjectCount)

	svc.InvalidatePortfolio("tenant1")
	_, err = svc.Portfolio(ctx, "tenant1")
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestPortfolio_WithoutCacheEmitsEveryCall(t *testing.T) {
	ctx := context.Background()
	overview := &stubOverview{}
	emitted := 0
	svc := health.NewService(stubProjects{projects: projects("a")}, overview, &mocks.SnapshotRepository{}, health.Options{
		OnRebuild: func(context.Context, health.RebuildEvent) { emitted++ },
	}, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Portfolio(ctx, "tenant1")
		require.NoError(t, err)
	}
	require.Equal(t, 3, emitted)
}

func TestPortfolio_FailureReturnsNoPartialResult(t *testing.T) {
	boom := errors.New("overview down")
	overview := &stubOverview{fail: map[string]error{"b": boom}}
	svc := health.NewService(stubProjects{projects: projects("a", "b")}, overview, &mocks.SnapshotRepository{}, health.Options{
		Cache:    cache.New(),
		CacheTTL: time.Minute,
	}, nil)

	result, err := svc.Portfolio(context.Background(), "tenant1")
	require.ErrorIs(t, err, boom)
	require.Nil(t, result)
}

func TestSnapshot_UpsertsToday(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SnapshotRepository{}
	repo.On("Upsert", ctx, "tenant1", mock.MatchedBy(func(s *health.Snapshot) bool {
		return s.ProjectID == "a" && s.SnapshotDate == "2026-06-03" && s.OverallStatus == health.StatusWarning && s.ID != ""
	})).Return(nil).Twice()

	overview := &stubOverview{health: map[string]health.Health{"a": {OverallStatus: health.StatusWarning}}}
	svc := health.NewService(stubProjects{projects: projects("a")}, overview, repo, health.Options{Now: clock}, nil)

	_, err := svc.Snapshot(ctx, "tenant1", "a")
	require.NoError(t, err)
	_, err = svc.Snapshot(ctx, "tenant1", "a")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSnapshot_ForeignProject(t *testing.T) {
	foreign := []project.Project{{ID: "x", TenantID: "tenant2"}}
	svc := health.NewService(stubProjects{projects: foreign}, &stubOverview{}, &mocks.SnapshotRepository{}, health.Options{Now: clock}, nil)

	_, err := svc.Snapshot(context.Background(), "tenant1", "x")
	require.ErrorIs(t, err, tenant.ErrMismatch)
}

func TestSnapshotAll_SkipsFailures(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SnapshotRepository{}
	repo.On("Upsert", ctx, "tenant1", mock.MatchedBy(func(s *health.Snapshot) bool { return s.ProjectID == "a" })).Return(nil)
	repo.On("Upsert", ctx, "tenant1", mock.MatchedBy(func(s *health.Snapshot) bool { return s.ProjectID == "c" })).Return(errors.New("locked"))

	overview := &stubOverview{fail: map[string]error{"b": errors.New("no tasks table")}}
	var sweeps []health.SweepEvent
	svc := health.NewService(stubProjects{projects: projects("a", "b", "c")}, overview, repo, health.Options{
		Now:     clock,
		OnSweep: func(_ context.Context, ev health.SweepEvent) { sweeps = append(sweeps, ev) },
	}, nil)

	count, err := svc.SnapshotAll(ctx, "tenant1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Len(t, sweeps, 1)
	require.Equal(t, "tenant1", sweeps[0].TenantID)
	require.Equal(t, 3, sweeps[0].ProjectCount)
	require.Equal(t, 1, sweeps[0].Snapshotted)
}

func TestClampDays(t *testing.T) {
	require.Equal(t, 30, health.ClampDays(0))
	require.Equal(t, 1, health.ClampDays(-4))
	require.Equal(t, 90, health.ClampDays(365))
	require.Equal(t, 7, health.ClampDays(7))
}

func TestHistory_SparseChronologicalWithoutNoData(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SnapshotRepository{}
	repo.On("CountByDateAndStatus", ctx, "tenant1", "2026-06-01", "2026-06-03").Return([]health.StatusCount{
		{Date: "2026-06-03", Status: health.StatusGood, Count: 2},
		{Date: "2026-06-01", Status: health.StatusGood, Count: 1},
		{Date: "2026-06-01", Status: health.StatusCritical, Count: 2},
		{Date: "2026-06-01", Status: health.StatusNoData, Count: 5},
		{Date: "2026-06-03", Status: health.StatusWarning, Count: 1},
	}, nil)

	svc := health.NewService(stubProjects{}, &stubOverview{}, repo, health.Options{Now: clock}, nil)
	points, err := svc.History(ctx, "tenant1", 3)
	require.NoError(t, err)
	require.Equal(t, []health.HistoryPoint{
		{Date: "2026-06-01", Good: 1, Critical: 2, Total: 3},
		{Date: "2026-06-03", Good: 2, Warning: 1, Total: 3},
	}, points)
}

func TestHistory_OnlyNoDataDayHasNoRow(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SnapshotRepository{}
	repo.On("CountByDateAndStatus", ctx, "tenant1", "2026-05-05", "2026-06-03").Return([]health.StatusCount{
		{Date: "2026-06-02", Status: health.StatusNoData, Count: 4},
	}, nil)

	svc := health.NewService(stubProjects{}, &stubOverview{}, repo, health.Options{Now: clock}, nil)
	points, err := svc.History(ctx, "tenant1", 0)
	require.NoError(t, err)
	require.Empty(t, points)
}
