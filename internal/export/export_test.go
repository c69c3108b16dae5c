package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalshi-portfolio-tracker/internal/kalshi"
)

func testSnapshot(fetchedAt time.Time) *kalshi.Snapshot {
	return &kalshi.Snapshot{
		Balance: &kalshi.BalanceResponse{Balance: 12345, PortfolioValue: 20000},
		Fills: []kalshi.Fill{
			{TradeID: "t1", Ticker: "FOO", Side: kalshi.SideYes, Action: "buy", Count: 10, YesPrice: 40, IsTaker: true, CreatedTime: "2026-08-01T10:00:00Z"},
		},
		Settlements: []kalshi.Settlement{
			{Ticker: "FOO", MarketResult: "yes", Revenue: 1000, SettledTime: "2026-08-10T00:00:00Z"},
		},
		FetchedAt: fetchedAt,
		APIBase:   "https://api.elections.kalshi.com/trade-api/v2",
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	mgr, err := NewManager(t.TempDir(), nil)
	require.NoError(t, err)

	fetchedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	path, err := mgr.SaveSnapshot(testSnapshot(fetchedAt))
	require.NoError(t, err)
	assert.Contains(t, path, "kalshi_data_20260830_120000.json")

	loaded, err := mgr.LoadLatestSnapshot()
	require.NoError(t, err)
	require.NotNil(t, loaded.Balance)
	assert.Equal(t, int64(12345), loaded.Balance.Balance)
	require.Len(t, loaded.Fills, 1)
	assert.Equal(t, "t1", loaded.Fills[0].TradeID)
}

func TestLoadLatestPicksNewest(t *testing.T) {
	mgr, err := NewManager(t.TempDir(), nil)
	require.NoError(t, err)

	old := testSnapshot(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	newer := testSnapshot(time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))
	newer.Balance.Balance = 99999

	_, err = mgr.SaveSnapshot(old)
	require.NoError(t, err)
	_, err = mgr.SaveSnapshot(newer)
	require.NoError(t, err)

	names, err := mgr.ListSnapshots()
	require.NoError(t, err)
	assert.Len(t, names, 2)

	latest, err := mgr.LoadLatestSnapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(99999), latest.Balance.Balance)
}

func TestLoadLatestEmptyDir(t *testing.T) {
	mgr, err := NewManager(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = mgr.LoadLatestSnapshot()
	assert.Error(t, err)
}

func TestCleanupOldSnapshots(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir, nil)
	require.NoError(t, err)

	ancient := testSnapshot(time.Now().AddDate(0, 0, -60))
	recent := testSnapshot(time.Now())

	_, err = mgr.SaveSnapshot(ancient)
	require.NoError(t, err)
	_, err = mgr.SaveSnapshot(recent)
	require.NoError(t, err)

	// An unrelated file must survive cleanup
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("keep me"), 0o644))

	removed, err := mgr.CleanupOldSnapshots(30)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	names, err := mgr.ListSnapshots()
	require.NoError(t, err)
	assert.Len(t, names, 1)

	_, err = os.Stat(other)
	assert.NoError(t, err)
}

func TestWriteTradesCSV(t *testing.T) {
	fills := []kalshi.FillWithResolution{
		{
			Fill: kalshi.Fill{
				TradeID: "t1", Ticker: "FOO", Side: kalshi.SideYes, Action: "buy",
				Count: 10, YesPrice: 40, IsTaker: true, CreatedTime: "2026-08-01T10:00:00Z",
			},
			MarketStatus: "settled",
			MarketResult: "yes",
		},
		{
			Fill: kalshi.Fill{
				TradeID: "t2", Ticker: "BAR", Side: kalshi.SideNo, Action: "sell",
				Count: 3, NoPrice: 25, CreatedTime: "2026-08-02T10:00:00Z",
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, fills))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows

	assert.Equal(t, tradesHeader, records[0])

	assert.Equal(t, []string{
		"t1", "FOO", "yes", "buy", "10", "40", "4.00", "true",
		"2026-08-01T10:00:00Z", "settled", "yes",
	}, records[1])

	// NO side uses the no price; unresolved market leaves result empty
	assert.Equal(t, "25", records[2][5])
	assert.Equal(t, "0.75", records[2][6])
	assert.Equal(t, "", records[2][10])
}

func TestExportTradesCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")

	fills := []kalshi.FillWithResolution{
		{Fill: kalshi.Fill{TradeID: "t1", Ticker: "FOO", Side: kalshi.SideYes, Action: "buy", Count: 1, YesPrice: 50}},
	}
	require.NoError(t, ExportTradesCSV(path, fills))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "trade_id,ticker,side")
	assert.Contains(t, string(data), "t1,FOO,yes,buy,1,50,0.50")
}
