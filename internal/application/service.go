package application

import (
	"context"
	"fmt"
	"strings"

	"notion-price-sync/internal/domain"

	"go.uber.org/zap"
)

// SyncService copies current prices from the feeds into the record stores.
type SyncService struct {
	catalog domain.Catalog
	crypto  CryptoPriceFeed
	etf     SecurityQuoteFeed
	store   RecordStore
	locator *Locator
	updater *Updater
	clock   Clock
	metrics Metrics
	log     *zap.Logger
}

type Option func(*SyncService)

func WithClock(c Clock) Option        { return func(s *SyncService) { s.clock = c } }
func WithMetrics(m Metrics) Option    { return func(s *SyncService) { s.metrics = m } }
func WithLogger(l *zap.Logger) Option { return func(s *SyncService) { s.log = l } }

func NewSyncService(catalog domain.Catalog, crypto CryptoPriceFeed, etf SecurityQuoteFeed, store RecordStore, opts ...Option) *SyncService {
	s := &SyncService{
		catalog: catalog,
		crypto:  crypto,
		etf:     etf,
		store:   store,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.locator = NewLocator(store, catalog.Fields.Title)
	s.updater = NewUpdater(store, catalog.Fields, s.clock)
	return s
}

// Run syncs the crypto group, then the ETF group. The first error aborts
// the run; rows written before it stay written.
func (s *SyncService) Run(ctx context.Context) (domain.RunReport, error) {
	var report domain.RunReport
	if err := s.syncCrypto(ctx, &report); err != nil {
		return report, err
	}
	if err := s.syncETFs(ctx, &report); err != nil {
		return report, err
	}
	return report, nil
}

func (s *SyncService) syncCrypto(ctx context.Context, report *domain.RunReport) error {
	g := s.catalog.Crypto
	cur := s.catalog.QuoteCurrency
	s.log.Info("sync_group_start", zap.String("group", string(g.Kind)), zap.Int("instruments", len(g.Instruments)))

	schema, err := s.store.Schema(ctx, g.StoreID)
	if err != nil {
		return fmt.Errorf("crypto: read schema: %w", err)
	}
	prices, err := s.crypto.SimplePrices(ctx, g.FeedIDs(), cur)
	if err != nil {
		return fmt.Errorf("crypto: fetch prices: %w", err)
	}

	for _, in := range g.Instruments {
		price, ok := prices.Lookup(in.FeedID, cur)
		if !ok {
			return fmt.Errorf("%w: coingecko response lacks %s/%s", domain.ErrDataMissing, in.FeedID, cur)
		}
		if err := s.write(ctx, g, schema, in, price, domain.PriceSourceBatch, report); err != nil {
			return err
		}
	}
	return nil
}

func (s *SyncService) syncETFs(ctx context.Context, report *domain.RunReport) error {
	g := s.catalog.ETF
	s.log.Info("sync_group_start", zap.String("group", string(g.Kind)), zap.Int("instruments", len(g.Instruments)))

	schema, err := s.store.Schema(ctx, g.StoreID)
	if err != nil {
		return fmt.Errorf("etf: read schema: %w", err)
	}

	for _, in := range g.Instruments {
		q, ok, err := s.etf.LastPrice(ctx, in.FeedID)
		if err != nil {
			return fmt.Errorf("etf: fetch %s: %w", in.FeedID, err)
		}
		if !ok {
			return fmt.Errorf("%w: no price available for %s", domain.ErrDataMissing, in.FeedID)
		}
		if err := s.write(ctx, g, schema, in, q.Price, q.Source, report); err != nil {
			return err
		}
	}
	return nil
}

func (s *SyncService) write(ctx context.Context, g domain.InstrumentGroup, schema domain.Schema, in domain.Instrument, price float64, src domain.PriceSource, report *domain.RunReport) error {
	rowID, err := s.locator.Find(ctx, g.StoreID, in.Name)
	if err != nil {
		return fmt.Errorf("%s %q: %w", g.Kind, in.Name, err)
	}
	if err := s.updater.Update(ctx, schema, rowID, price); err != nil {
		return fmt.Errorf("%s %q: %w", g.Kind, in.Name, err)
	}

	cur := strings.ToUpper(s.catalog.QuoteCurrency)
	report.Updates = append(report.Updates, domain.InstrumentUpdate{
		Group:    g.Kind,
		Name:     in.Name,
		FeedID:   in.FeedID,
		Price:    price,
		Currency: cur,
		Source:   src,
	})
	s.metrics.InstrumentUpdated(string(g.Kind))
	s.log.Info("instrument_updated",
		zap.String("group", string(g.Kind)),
		zap.String("name", in.Name),
		zap.String("feed_id", in.FeedID),
		zap.Float64("price", price),
		zap.String("currency", cur),
		zap.String("source", string(src)),
	)
	return nil
}
