package domain

type GroupKind string

const (
	GroupCrypto GroupKind = "crypto"
	GroupETF    GroupKind = "etf"
)

// Instrument maps a row title in the record store to an upstream feed id.
type Instrument struct {
	Name   string
	FeedID string
}

type InstrumentGroup struct {
	Kind        GroupKind
	StoreID     string
	Instruments []Instrument
}

// FeedIDs returns the feed ids in declared order.
func (g InstrumentGroup) FeedIDs() []string {
	ids := make([]string, 0, len(g.Instruments))
	for _, in := range g.Instruments {
		ids = append(ids, in.FeedID)
	}
	return ids
}

// Fields names the store properties the sync reads and writes.
type Fields struct {
	Title       string
	Price       string
	LastUpdated string
}

// Catalog is the read-only sync configuration for one process.
type Catalog struct {
	QuoteCurrency string
	Fields        Fields
	Crypto        InstrumentGroup
	ETF           InstrumentGroup
}

var DefaultFields = Fields{
	Title:       "Name",
	Price:       "Current Price",
	LastUpdated: "Last Updated",
}

// DefaultCatalog returns the built-in instrument tables bound to the given stores.
func DefaultCatalog(cryptoStoreID, etfStoreID string) Catalog {
	return Catalog{
		QuoteCurrency: "aud",
		Fields:        DefaultFields,
		Crypto: InstrumentGroup{
			Kind:    GroupCrypto,
			StoreID: cryptoStoreID,
			Instruments: []Instrument{
				{Name: "Bitcoin", FeedID: "bitcoin"},
				{Name: "WLFI", FeedID: "world-liberty-financial"},
			},
		},
		ETF: InstrumentGroup{
			Kind:    GroupETF,
			StoreID: etfStoreID,
			Instruments: []Instrument{
				{Name: "IVV", FeedID: "IVV.AX"},
				{Name: "AGS", FeedID: "AGS.AX"},
			},
		},
	}
}
