package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"kalshi-portfolio-tracker/internal/kalshi"
)

var tradesHeader = []string{
	"trade_id", "ticker", "side", "action", "count",
	"price_cents", "cost_dollars", "is_taker",
	"created_time", "market_status", "market_result",
}

// WriteTradesCSV writes fills (with optional market resolutions) as CSV.
func WriteTradesCSV(w io.Writer, fills []kalshi.FillWithResolution) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(tradesHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, f := range fills {
		record := []string{
			f.TradeID,
			f.Ticker,
			string(f.Side),
			f.Action,
			strconv.Itoa(f.Count),
			strconv.Itoa(f.PriceCents()),
			fmt.Sprintf("%.2f", float64(f.CostCents())/100.0),
			strconv.FormatBool(f.IsTaker),
			f.CreatedTime,
			f.MarketStatus,
			f.MarketResult,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing fill %s: %w", f.TradeID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportTradesCSV writes the trades CSV to a file.
func ExportTradesCSV(path string, fills []kalshi.FillWithResolution) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteTradesCSV(f, fills); err != nil {
		return err
	}
	return f.Close()
}
