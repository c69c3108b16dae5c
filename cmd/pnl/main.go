package main

import (
	"fmt"

	"go.uber.org/zap"

	"kalshi-portfolio-tracker/internal/config"
	"kalshi-portfolio-tracker/internal/logging"
	"kalshi-portfolio-tracker/internal/pnl"
	"kalshi-portfolio-tracker/internal/store"
)

// pnl prints the realized PnL report from locally stored fills and
// settlements. Works entirely offline; run fetch first.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	pnl.ConfigureFees(cfg.FeeCoeff, cfg.FeeCap)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	fills, err := db.ListFills()
	if err != nil {
		logger.Fatal("loading fills", zap.Error(err))
	}

	settlements, err := db.ListSettlements()
	if err != nil {
		logger.Fatal("loading settlements", zap.Error(err))
	}

	if len(fills) == 0 {
		fmt.Println("No fills stored. Run the fetch command first.")
		return
	}

	report := pnl.Compute(fills, settlements)

	fmt.Println("=== Kalshi PnL Report ===")
	fmt.Printf("Markets traded: %d (settled: %d)\n", len(report.Tickers), report.SettledMarkets)
	fmt.Printf("Total cost:     $%.2f\n", pnl.Dollars(report.TotalBuyCost))
	fmt.Printf("Sell proceeds:  $%.2f\n", pnl.Dollars(report.TotalProceeds))
	fmt.Printf("Settlements:    $%.2f\n", pnl.Dollars(report.TotalRevenue))
	fmt.Printf("Est. fees:      $%.2f\n", pnl.Dollars(report.TotalFees))
	fmt.Printf("Realized PnL:   $%.2f\n", pnl.Dollars(report.TotalRealizedPnl))
	if report.Wins+report.Losses > 0 {
		fmt.Printf("Record:         %d-%d (%.0f%% win rate)\n",
			report.Wins, report.Losses, report.WinRate*100)
	}

	fmt.Println()
	for _, t := range report.Tickers {
		marker := " "
		if t.Settled {
			marker = "*"
		}
		fmt.Printf("%s %-30s bought=%-4d sold=%-4d pnl=$%.2f\n",
			marker, t.Ticker, t.ContractsBought, t.ContractsSold, pnl.Dollars(t.RealizedPnl))
	}
}
