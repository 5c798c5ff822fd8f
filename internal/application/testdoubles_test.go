package application

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"notion-price-sync/internal/domain"
)

var (
	ErrRepo = errors.New("repo error")
	ErrFeed = errors.New("feed error")
)

type fakeCryptoFeed struct {
	table domain.PriceTable
	err   error
	calls [][]string
}

func (f *fakeCryptoFeed) SimplePrices(_ context.Context, ids []string, _ string) (domain.PriceTable, error) {
	f.calls = append(f.calls, ids)
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

type fakeQuoteFeed struct {
	quotes map[string]domain.SecurityQuote
	errs   map[string]error
	calls  []string
}

func (f *fakeQuoteFeed) LastPrice(_ context.Context, ticker string) (domain.SecurityQuote, bool, error) {
	f.calls = append(f.calls, ticker)
	if err := f.errs[ticker]; err != nil {
		return domain.SecurityQuote{}, false, err
	}
	q, ok := f.quotes[ticker]
	return q, ok, nil
}

type patchCall struct {
	RowID string
	Patch domain.RowPatch
}

// fakeStore resolves rows by store id and title.
type fakeStore struct {
	schemas   map[string]domain.Schema
	rows      map[string]map[string][]string
	schemaErr error
	patchErr  error
	patches   []patchCall
}

func (f *fakeStore) Schema(_ context.Context, storeID string) (domain.Schema, error) {
	if f.schemaErr != nil {
		return nil, f.schemaErr
	}
	return f.schemas[storeID], nil
}

func (f *fakeStore) QueryByTitle(_ context.Context, storeID, _ string, title string) ([]string, error) {
	return f.rows[storeID][title], nil
}

func (f *fakeStore) PatchRow(_ context.Context, rowID string, patch domain.RowPatch) error {
	if f.patchErr != nil {
		return f.patchErr
	}
	f.patches = append(f.patches, patchCall{RowID: rowID, Patch: patch})
	return nil
}

type fakeRunRepo struct {
	mu        sync.Mutex
	runs      map[string]domain.SyncRun
	createErr error
}

func (f *fakeRunRepo) Create(_ context.Context, run domain.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if f.runs == nil {
		f.runs = map[string]domain.SyncRun{}
	}
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunRepo) Finish(_ context.Context, run domain.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.runs[run.ID]; !ok {
		return ErrNotFound
	}
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunRepo) GetByID(_ context.Context, id string) (domain.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return domain.SyncRun{}, ErrNotFound
	}
	return run, nil
}

type fakeSyncer struct {
	report domain.RunReport
	err    error
	onRun  func()
}

func (f *fakeSyncer) Run(context.Context) (domain.RunReport, error) {
	if f.onRun != nil {
		f.onRun()
	}
	return f.report, f.err
}

type fakeMetrics struct {
	statuses []string
	groups   []string
}

func (m *fakeMetrics) RunFinished(status string, _ time.Duration, _ time.Time) {
	m.statuses = append(m.statuses, status)
}

func (m *fakeMetrics) InstrumentUpdated(group string) { m.groups = append(m.groups, group) }

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return "run-" + strconv.Itoa(g.n)
}
