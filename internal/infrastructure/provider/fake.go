package provider

import (
	"context"

	"notion-price-sync/internal/application"
	"notion-price-sync/internal/domain"
)

var (
	_ application.CryptoPriceFeed   = (*Fake)(nil)
	_ application.SecurityQuoteFeed = (*Fake)(nil)
)

// Fake answers every request with one fixed price. Used with FEEDS=fake.
type Fake struct {
	price float64
}

func NewFake(price float64) *Fake { return &Fake{price: price} }

func (f *Fake) SimplePrices(_ context.Context, coinIDs []string, currency string) (domain.PriceTable, error) {
	out := make(domain.PriceTable, len(coinIDs))
	for _, id := range coinIDs {
		out[id] = map[string]float64{currency: f.price}
	}
	return out, nil
}

func (f *Fake) LastPrice(_ context.Context, ticker string) (domain.SecurityQuote, bool, error) {
	return domain.SecurityQuote{Ticker: ticker, Price: f.price, Source: domain.PriceSourceLive}, true, nil
}
