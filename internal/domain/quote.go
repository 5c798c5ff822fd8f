package domain

// PriceTable is the raw batch response: coin id -> quote currency -> price.
type PriceTable map[string]map[string]float64

// Lookup returns the price for one coin/currency pair.
func (t PriceTable) Lookup(coinID, currency string) (float64, bool) {
	byCurrency, ok := t[coinID]
	if !ok {
		return 0, false
	}
	price, ok := byCurrency[currency]
	return price, ok
}

type PriceSource string

const (
	PriceSourceLive          PriceSource = "live"
	PriceSourcePreviousClose PriceSource = "previous_close"
	PriceSourceBatch         PriceSource = "batch"
)

// SecurityQuote is the best available price for a listed security.
type SecurityQuote struct {
	Ticker string
	Price  float64
	Source PriceSource
}
