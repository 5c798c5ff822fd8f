package domain

type SyncRunStatus string

const (
	SyncRunStatusRunning SyncRunStatus = "running"
	SyncRunStatusDone    SyncRunStatus = "done"
	SyncRunStatusFailed  SyncRunStatus = "failed"
)
