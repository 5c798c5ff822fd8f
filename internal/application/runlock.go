package application

import (
	"context"
	"sync"
)

const DefaultRunLockKey = "notion-price-sync:run"

// RunLock keeps two sync runs from overlapping.
type RunLock interface {
	// TryAcquire returns true if key was free and is now held.
	TryAcquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// LocalRunLock guards runs within a single process.
type LocalRunLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLocalRunLock() *LocalRunLock { return &LocalRunLock{held: map[string]bool{}} }

func (l *LocalRunLock) TryAcquire(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *LocalRunLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.held, key)
	l.mu.Unlock()
	return nil
}
