package domain

import "time"

type SyncRun struct {
	ID         string
	Status     SyncRunStatus
	Error      *string
	Updated    int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// InstrumentUpdate records one row written during a run.
type InstrumentUpdate struct {
	Group    GroupKind
	Name     string
	FeedID   string
	Price    float64
	Currency string
	Source   PriceSource
}

// RunReport lists the rows written by a run, in write order.
type RunReport struct {
	Updates []InstrumentUpdate
}
