package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog("crypto-db", "etf-db")

	require.Equal(t, "aud", c.QuoteCurrency)
	require.Equal(t, "crypto-db", c.Crypto.StoreID)
	require.Equal(t, "etf-db", c.ETF.StoreID)
	require.Equal(t, []string{"bitcoin", "world-liberty-financial"}, c.Crypto.FeedIDs())
	require.Equal(t, []string{"IVV.AX", "AGS.AX"}, c.ETF.FeedIDs())
	require.Equal(t, "Current Price", c.Fields.Price)
}

func TestPriceTableLookup(t *testing.T) {
	tbl := PriceTable{"bitcoin": {"aud": 97250.5}}

	p, ok := tbl.Lookup("bitcoin", "aud")
	require.True(t, ok)
	require.InDelta(t, 97250.5, p, 1e-9)

	_, ok = tbl.Lookup("bitcoin", "usd")
	require.False(t, ok)
	_, ok = tbl.Lookup("ethereum", "aud")
	require.False(t, ok)
}

func TestSchemaHas(t *testing.T) {
	s := Schema{"Current Price": "number"}
	require.True(t, s.Has("Current Price"))
	require.False(t, s.Has("current price"))
}
