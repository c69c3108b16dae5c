package pnl

import (
	"math"
	"sort"

	"kalshi-portfolio-tracker/internal/kalshi"
)

// TickerReport aggregates trading activity for one market.
// All money fields are in cents.
type TickerReport struct {
	Ticker            string
	ContractsBought   int
	ContractsSold     int
	BuyCost           int64
	SellProceeds      int64
	SettlementRevenue int64
	EstimatedFees     int64 // Taker fee estimate over taker fills
	RealizedPnl       int64 // proceeds + revenue - cost - fees
	Settled           bool
	MarketResult      string // "yes"/"no" once settled
}

// Report is the full-portfolio PnL summary, in cents.
type Report struct {
	Tickers []TickerReport

	TotalBuyCost      int64
	TotalProceeds     int64
	TotalRevenue      int64
	TotalFees         int64
	TotalRealizedPnl  int64
	SettledMarkets    int
	Wins              int
	Losses            int
	WinRate           float64 // Wins over settled markets with nonzero pnl
}

// Compute aggregates fills and settlements into per-ticker and portfolio
// totals. Pure arithmetic over the inputs; no I/O.
func Compute(fills []kalshi.Fill, settlements []kalshi.Settlement) *Report {
	byTicker := make(map[string]*TickerReport)

	get := func(ticker string) *TickerReport {
		r, ok := byTicker[ticker]
		if !ok {
			r = &TickerReport{Ticker: ticker}
			byTicker[ticker] = r
		}
		return r
	}

	for _, f := range fills {
		r := get(f.Ticker)
		cost := f.CostCents()

		if f.Action == string(kalshi.ActionSell) {
			r.ContractsSold += f.Count
			r.SellProceeds += cost
		} else {
			r.ContractsBought += f.Count
			r.BuyCost += cost
		}

		if f.IsTaker {
			r.EstimatedFees += int64(math.Round(TakerFeeCents(f.PriceCents()) * float64(f.Count)))
		}
	}

	for _, s := range settlements {
		r := get(s.Ticker)
		r.SettlementRevenue += s.Revenue
		r.Settled = true
		r.MarketResult = s.MarketResult
	}

	report := &Report{}
	for _, r := range byTicker {
		r.RealizedPnl = r.SellProceeds + r.SettlementRevenue - r.BuyCost - r.EstimatedFees

		report.TotalBuyCost += r.BuyCost
		report.TotalProceeds += r.SellProceeds
		report.TotalRevenue += r.SettlementRevenue
		report.TotalFees += r.EstimatedFees
		report.TotalRealizedPnl += r.RealizedPnl

		if r.Settled {
			report.SettledMarkets++
			switch {
			case r.RealizedPnl > 0:
				report.Wins++
			case r.RealizedPnl < 0:
				report.Losses++
			}
		}

		report.Tickers = append(report.Tickers, *r)
	}

	if decided := report.Wins + report.Losses; decided > 0 {
		report.WinRate = float64(report.Wins) / float64(decided)
	}

	// Biggest winners first, for readable output
	sort.Slice(report.Tickers, func(i, j int) bool {
		if report.Tickers[i].RealizedPnl != report.Tickers[j].RealizedPnl {
			return report.Tickers[i].RealizedPnl > report.Tickers[j].RealizedPnl
		}
		return report.Tickers[i].Ticker < report.Tickers[j].Ticker
	})

	return report
}

// Dollars converts cents to dollars for display.
func Dollars(cents int64) float64 {
	return float64(cents) / 100.0
}
