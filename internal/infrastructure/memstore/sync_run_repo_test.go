package memstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"notion-price-sync/internal/application"
	"notion-price-sync/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestSyncRunRepo_CreateFinishGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewSyncRunRepo(10)
	start := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, domain.SyncRun{ID: "r1", Status: domain.SyncRunStatusRunning, StartedAt: start}))
	end := start.Add(time.Second)
	require.NoError(t, repo.Finish(ctx, domain.SyncRun{ID: "r1", Status: domain.SyncRunStatusDone, Updated: 4, StartedAt: start, FinishedAt: &end}))

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, domain.SyncRunStatusDone, got.Status)
	require.Equal(t, 4, got.Updated)
}

func TestSyncRunRepo_UnknownID(t *testing.T) {
	t.Parallel()
	repo := NewSyncRunRepo(10)
	_, err := repo.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, application.ErrNotFound)
	require.ErrorIs(t, repo.Finish(context.Background(), domain.SyncRun{ID: "nope"}), application.ErrNotFound)
}

func TestSyncRunRepo_DropsOldest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewSyncRunRepo(2)
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Create(ctx, domain.SyncRun{ID: fmt.Sprintf("r%d", i)}))
	}
	_, err := repo.GetByID(ctx, "r1")
	require.ErrorIs(t, err, application.ErrNotFound)
	_, err = repo.GetByID(ctx, "r3")
	require.NoError(t, err)
}
