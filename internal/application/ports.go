package application

import (
	"context"
	"time"

	"notion-price-sync/internal/domain"
)

// CryptoPriceFeed returns prices for many coins in one quote currency.
type CryptoPriceFeed interface {
	SimplePrices(ctx context.Context, coinIDs []string, currency string) (domain.PriceTable, error)
}

// SecurityQuoteFeed returns the best available price for one ticker.
// ok is false when the feed has no price; that is not an error.
type SecurityQuoteFeed interface {
	LastPrice(ctx context.Context, ticker string) (q domain.SecurityQuote, ok bool, err error)
}

// RecordStore is the external database holding one row per instrument.
type RecordStore interface {
	Schema(ctx context.Context, storeID string) (domain.Schema, error)
	QueryByTitle(ctx context.Context, storeID, titleField, title string) ([]string, error)
	PatchRow(ctx context.Context, rowID string, patch domain.RowPatch) error
}

type SyncRunRepo interface {
	Create(ctx context.Context, run domain.SyncRun) error
	Finish(ctx context.Context, run domain.SyncRun) error
	GetByID(ctx context.Context, id string) (domain.SyncRun, error)
}

type Metrics interface {
	RunFinished(status string, took time.Duration, at time.Time)
	InstrumentUpdated(group string)
}

type noopMetrics struct{}

func (noopMetrics) RunFinished(string, time.Duration, time.Time) {}
func (noopMetrics) InstrumentUpdated(string)                     {}
