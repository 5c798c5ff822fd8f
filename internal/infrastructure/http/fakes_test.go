package httpserver

import (
	"context"
	"sync"
	"time"

	"notion-price-sync/internal/application"
	"notion-price-sync/internal/domain"
)

// fakeRuns is a single-slot run service backed by a map.
type fakeRuns struct {
	mu      sync.Mutex
	busy    bool
	runs    map[string]domain.SyncRun
	release chan struct{}
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{runs: map[string]domain.SyncRun{}, release: make(chan struct{})}
}

func (f *fakeRuns) Begin(context.Context) (domain.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return domain.SyncRun{}, application.ErrRunInProgress
	}
	f.busy = true
	run := domain.SyncRun{ID: "run-1", Status: domain.SyncRunStatusRunning, StartedAt: time.Now().UTC()}
	f.runs[run.ID] = run
	return run, nil
}

func (f *fakeRuns) Execute(_ context.Context, run domain.SyncRun) (domain.SyncRun, error) {
	<-f.release
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	run.Status, run.Updated, run.FinishedAt = domain.SyncRunStatusDone, 4, &now
	f.runs[run.ID] = run
	f.busy = false
	return run, nil
}

func (f *fakeRuns) GetRun(_ context.Context, id string) (domain.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return domain.SyncRun{}, application.ErrNotFound
	}
	return run, nil
}

type panicRuns struct{ *fakeRuns }

func (panicRuns) GetRun(context.Context, string) (domain.SyncRun, error) { panic("boom") }
