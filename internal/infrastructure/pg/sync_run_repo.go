package pg

import (
	"context"
	"errors"

	"notion-price-sync/internal/application"
	"notion-price-sync/internal/domain"
	"notion-price-sync/internal/infrastructure/logx"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ application.SyncRunRepo = (*SyncRunRepo)(nil)

// SyncRunRepo is the run journal. It stores outcomes only, never prices.
type SyncRunRepo struct{ db *DB }

func NewSyncRunRepo(db *DB) *SyncRunRepo { return &SyncRunRepo{db: db} }

func (r *SyncRunRepo) Create(ctx context.Context, run domain.SyncRun) error {
	const ins = `
        INSERT INTO sync_runs(id, status, started_at)
        VALUES ($1, $2, $3)`
	log := logx.L().With(
		zap.String("repo", "sync_run"),
		zap.String("operation", "Create"),
		zap.String("id", run.ID),
	)
	tag, err := r.db.Pool.Exec(ctx, ins, run.ID, string(run.Status), run.StartedAt)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	log.Debug("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}

func (r *SyncRunRepo) Finish(ctx context.Context, run domain.SyncRun) error {
	const up = `
        UPDATE sync_runs
        SET status=$2,
            error=$3,
            updated=$4,
            finished_at=$5
        WHERE id=$1`
	log := logx.L().With(
		zap.String("repo", "sync_run"),
		zap.String("operation", "Finish"),
		zap.String("id", run.ID),
		zap.String("status", string(run.Status)),
	)
	tag, err := r.db.Pool.Exec(ctx, up, run.ID, string(run.Status), run.Error, run.Updated, run.FinishedAt)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		log.Warn("sql.exec_no_rows")
		return application.ErrNotFound
	}
	log.Debug("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}

func (r *SyncRunRepo) GetByID(ctx context.Context, id string) (domain.SyncRun, error) {
	const q = `
        SELECT id::text, status, error, updated, started_at, finished_at
        FROM sync_runs WHERE id::text=$1`
	var (
		out    domain.SyncRun
		status string
	)
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&out.ID, &status, &out.Error, &out.Updated, &out.StartedAt, &out.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SyncRun{}, application.ErrNotFound
	}
	if err != nil {
		logx.L().Error("sql.query_failed", zap.String("repo", "sync_run"), zap.String("id", id), zap.Error(err))
		return domain.SyncRun{}, err
	}
	switch status {
	case "running":
		out.Status = domain.SyncRunStatusRunning
	case "done":
		out.Status = domain.SyncRunStatusDone
	default:
		out.Status = domain.SyncRunStatusFailed
	}
	return out, nil
}
