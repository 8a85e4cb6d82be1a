package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/costwatch/internal/domain/event"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewEventRepository(db)
	entry1 := &event.Event{Type: event.TypePortfolioRebuilt, ProjectCount: 3, DurationMS: 12}
	entry2 := &event.Event{Type: event.TypeSnapshotSweep, ProjectCount: 3, Details: `{"failed":0,"snapshotted":3}`}

	require.NoError(t, repo.Log(ctx, "tenant1", entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, "tenant1", entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, "tenant1", event.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, event.TypeSnapshotSweep, entries[0].Type)
	require.Equal(t, entry2.Details, entries[0].Details)
	require.Equal(t, event.TypePortfolioRebuilt, entries[1].Type)
	require.Equal(t, int64(12), entries[1].DurationMS)
	require.Empty(t, entries[1].Details)
}

func TestEventRepository_FiltersAndTenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewEventRepository(db)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Log(ctx, "tenant1", &event.Event{Type: event.TypePortfolioRebuilt, ProjectCount: i}))
	}
	require.NoError(t, repo.Log(ctx, "tenant1", &event.Event{Type: event.TypeSnapshotSweep}))
	require.NoError(t, repo.Log(ctx, "tenant2", &event.Event{Type: event.TypePortfolioRebuilt}))

	rebuilt := event.TypePortfolioRebuilt
	entries, err := repo.List(ctx, "tenant1", event.ListOptions{Type: &rebuilt})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	paged, err := repo.List(ctx, "tenant1", event.ListOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 2)

	other, err := repo.List(ctx, "tenant2", event.ListOptions{})
	require.NoError(t, err)
	require.Len(t, other, 1)
}
