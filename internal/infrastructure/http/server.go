package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"notion-price-sync/internal/application"
	"notion-price-sync/internal/domain"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RunService is the part of application.SyncRunner the admin surface needs.
type RunService interface {
	Begin(ctx context.Context) (domain.SyncRun, error)
	Execute(ctx context.Context, run domain.SyncRun) (domain.SyncRun, error)
	GetRun(ctx context.Context, id string) (domain.SyncRun, error)
}

var _ RunService = (*application.SyncRunner)(nil)

type Server struct {
	runs    RunService
	ping    func(ctx context.Context) error
	metrics http.Handler
	baseCtx context.Context
	wg      sync.WaitGroup
	log     *zap.Logger
}

func NewServer(runs RunService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{runs: runs, baseCtx: context.Background(), log: log}
}

func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }
func (s *Server) SetMetricsHandler(h http.Handler)                 { s.metrics = h }

// SetBaseContext sets the context triggered runs execute under.
func (s *Server) SetBaseContext(ctx context.Context) { s.baseCtx = ctx }

// Wait blocks until every triggered run has finished.
func (s *Server) Wait() { s.wg.Wait() }

type triggerResponse struct {
	RunID string `json:"run_id"`
}

type runResponse struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Updated    int        `json:"updated"`
	Error      *string    `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (s *Server) TriggerSync(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Begin(r.Context())
	if err != nil {
		if errors.Is(err, application.ErrRunInProgress) {
			writeError(w, http.StatusConflict, "sync already running")
			return
		}
		s.log.Error("trigger_sync_failed", zap.Error(err))
		internalError(w)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _ = s.runs.Execute(s.baseCtx, run)
	}()
	writeJSON(w, http.StatusAccepted, triggerResponse{RunID: run.ID})
}

func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			notFound(w)
			return
		}
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, runResponse{
		ID:         run.ID,
		Status:     string(run.Status),
		Updated:    run.Updated,
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	})
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
