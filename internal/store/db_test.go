package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalshi-portfolio-tracker/internal/kalshi"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleFills() []kalshi.Fill {
	return []kalshi.Fill{
		{
			TradeID: "t1", OrderID: "o1", Ticker: "KXELON-25",
			Side: kalshi.SideYes, Action: "buy", Count: 10,
			YesPrice: 40, NoPrice: 60, IsTaker: true,
			CreatedTime: "2026-08-01T10:00:00Z",
		},
		{
			TradeID: "t2", OrderID: "o2", Ticker: "KXELON-25",
			Side: kalshi.SideYes, Action: "sell", Count: 5,
			YesPrice: 55, NoPrice: 45, IsTaker: false,
			CreatedTime: "2026-08-02T11:00:00Z",
		},
		{
			TradeID: "t3", OrderID: "o3", Ticker: "KXFED-26",
			Side: kalshi.SideNo, Action: "buy", Count: 3,
			YesPrice: 70, NoPrice: 30, IsTaker: true,
			CreatedTime: "2026-08-03T12:00:00Z",
		},
	}
}

func TestUpsertFillsDeduplicates(t *testing.T) {
	s := openTestStore(t)

	n, err := s.UpsertFills(sampleFills())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Same fills again: nothing new
	n, err = s.UpsertFills(sampleFills())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	count, err := s.CountFills()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestListFillsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, err := s.UpsertFills(sampleFills())
	require.NoError(t, err)

	fills, err := s.ListFills()
	require.NoError(t, err)
	require.Len(t, fills, 3)

	// Newest first
	assert.Equal(t, "t3", fills[0].TradeID)
	assert.Equal(t, "t1", fills[2].TradeID)

	// Field fidelity
	assert.Equal(t, kalshi.SideNo, fills[0].Side)
	assert.Equal(t, 3, fills[0].Count)
	assert.Equal(t, 30, fills[0].NoPrice)
	assert.True(t, fills[0].IsTaker)
	assert.False(t, fills[1].IsTaker)
}

func TestListFillsByTicker(t *testing.T) {
	s := openTestStore(t)

	_, err := s.UpsertFills(sampleFills())
	require.NoError(t, err)

	fills, err := s.ListFillsByTicker("KXELON-25")
	require.NoError(t, err)
	require.Len(t, fills, 2)
	for _, f := range fills {
		assert.Equal(t, "KXELON-25", f.Ticker)
	}

	none, err := s.ListFillsByTicker("MISSING")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpsertSettlements(t *testing.T) {
	s := openTestStore(t)

	settlements := []kalshi.Settlement{
		{
			Ticker: "KXELON-25", MarketResult: "yes",
			YesCount: 10, YesTotalCost: 400, Revenue: 1000,
			SettledTime: "2026-08-10T00:00:00Z",
		},
		{
			Ticker: "KXFED-26", MarketResult: "no",
			NoCount: 3, NoTotalCost: 90, Revenue: 300,
			SettledTime: "2026-08-11T00:00:00Z",
		},
	}

	n, err := s.UpsertSettlements(settlements)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.UpsertSettlements(settlements)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := s.ListSettlements()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "KXFED-26", got[0].Ticker) // newest first
	assert.Equal(t, int64(1000), got[1].Revenue)
}
