package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/costwatch/internal/domain/health"
	"github.com/rpggio/costwatch/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRepository_UpsertIsIdempotentPerDay(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()
	insertProject(t, db, "p1", "tenant1", nil)

	first := &health.Snapshot{
		ID:           "s1",
		ProjectID:    "p1",
		SnapshotDate: "2026-06-03",
		Health:       health.Health{OverallStatus: health.StatusGood, ScheduleStatus: health.StatusGood, CostStatus: health.StatusGood},
		CreatedAt:    time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Upsert(ctx, "tenant1", first))

	second := &health.Snapshot{
		ID:           "s2",
		ProjectID:    "p1",
		SnapshotDate: "2026-06-03",
		Health: health.Health{
			OverallStatus:       health.StatusCritical,
			ScheduleStatus:      health.StatusGood,
			CostStatus:          health.StatusCritical,
			TasksCompletionRate: 0.5,
			OverdueTasks:        2,
		},
	}
	require.NoError(t, repo.Upsert(ctx, "tenant1", second))
	require.Equal(t, "s1", second.ID, "existing row keeps its id")

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM project_health_snapshots`).Scan(&count))
	require.Equal(t, 1, count)

	stored, err := repo.Get(ctx, "tenant1", "p1", "2026-06-03")
	require.NoError(t, err)
	require.Equal(t, health.StatusCritical, stored.OverallStatus)
	require.Equal(t, 0.5, stored.TasksCompletionRate)
	require.Equal(t, 2, stored.OverdueTasks)

	_, err = repo.Get(ctx, "tenant2", "p1", "2026-06-03")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSnapshotRepository_UnknownProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSnapshotRepository(db)

	err := repo.Upsert(context.Background(), "tenant1", &health.Snapshot{
		ID:           "s1",
		ProjectID:    "missing",
		SnapshotDate: "2026-06-03",
		Health:       health.Health{OverallStatus: health.StatusGood},
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestSnapshotRepository_CountByDateAndStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()
	for _, id := range []string{"p1", "p2", "p3"} {
		insertProject(t, db, id, "tenant1", nil)
	}
	insertProject(t, db, "q1", "tenant2", nil)

	put := func(tenantID, id, projectID, date string, status health.Status) {
		require.NoError(t, repo.Upsert(ctx, tenantID, &health.Snapshot{
			ID:           id,
			ProjectID:    projectID,
			SnapshotDate: date,
			Health:       health.Health{OverallStatus: status},
		}))
	}
	put("tenant1", "a", "p1", "2026-05-31", health.StatusGood)
	put("tenant1", "b", "p1", "2026-06-01", health.StatusGood)
	put("tenant1", "c", "p2", "2026-06-01", health.StatusCritical)
	put("tenant1", "d", "p3", "2026-06-01", health.StatusCritical)
	put("tenant1", "e", "p1", "2026-06-03", health.StatusWarning)
	put("tenant2", "f", "q1", "2026-06-02", health.StatusGood)

	counts, err := repo.CountByDateAndStatus(ctx, "tenant1", "2026-06-01", "2026-06-03")
	require.NoError(t, err)
	require.Equal(t, []health.StatusCount{
		{Date: "2026-06-01", Status: health.StatusCritical, Count: 2},
		{Date: "2026-06-01", Status: health.StatusGood, Count: 1},
		{Date: "2026-06-03", Status: health.StatusWarning, Count: 1},
	}, counts)
}
