package memstore

import (
	"context"
	"sync"

	"notion-price-sync/internal/application"
	"notion-price-sync/internal/domain"
)

var _ application.SyncRunRepo = (*SyncRunRepo)(nil)

// SyncRunRepo keeps the most recent runs in process memory.
type SyncRunRepo struct {
	mu    sync.RWMutex
	runs  map[string]domain.SyncRun
	order []string
	limit int
}

// NewSyncRunRepo keeps at most limit runs; older ones are dropped first.
func NewSyncRunRepo(limit int) *SyncRunRepo {
	if limit <= 0 {
		limit = 100
	}
	return &SyncRunRepo{runs: map[string]domain.SyncRun{}, limit: limit}
}

func (r *SyncRunRepo) Create(_ context.Context, run domain.SyncRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[run.ID]; !ok {
		r.order = append(r.order, run.ID)
	}
	r.runs[run.ID] = run
	for len(r.order) > r.limit {
		delete(r.runs, r.order[0])
		r.order = r.order[1:]
	}
	return nil
}

func (r *SyncRunRepo) Finish(_ context.Context, run domain.SyncRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[run.ID]; !ok {
		return application.ErrNotFound
	}
	r.runs[run.ID] = run
	return nil
}

func (r *SyncRunRepo) GetByID(_ context.Context, id string) (domain.SyncRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return domain.SyncRun{}, application.ErrNotFound
	}
	return run, nil
}
