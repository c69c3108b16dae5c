package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"kalshi-portfolio-tracker/internal/config"
	"kalshi-portfolio-tracker/internal/export"
	"kalshi-portfolio-tracker/internal/kalshi"
	"kalshi-portfolio-tracker/internal/logging"
)

// export writes the trades CSV from the latest saved snapshot.
// By default it works entirely offline (run fetch first); -live looks up
// each market's final result from the API instead.
func main() {
	out := flag.String("out", "", "output CSV path (default <data dir>/trades.csv)")
	keepDays := flag.Int("keep-days", 0, "if set, delete snapshots older than this many days")
	live := flag.Bool("live", false, "look up market results from the API instead of snapshot settlements")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	mgr, err := export.NewManager(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("opening data dir", zap.Error(err))
	}

	snap, err := mgr.LoadLatestSnapshot()
	if err != nil {
		logger.Fatal("loading snapshot", zap.Error(err))
	}

	var fills []kalshi.FillWithResolution
	if *live {
		if err := config.Validate(cfg); err != nil {
			logger.Fatal("configuration error", zap.Error(err))
		}
		client, err := newClient(cfg, logger)
		if err != nil {
			logger.Fatal("creating client", zap.Error(err))
		}
		fills = client.AnnotateResolutions(snap.Fills)
	} else {
		// Settlement results recorded in the snapshot stand in for
		// per-market lookups so the export needs no network access.
		results := make(map[string]string)
		for _, s := range snap.Settlements {
			results[s.Ticker] = s.MarketResult
		}

		fills = make([]kalshi.FillWithResolution, 0, len(snap.Fills))
		for _, f := range snap.Fills {
			r := kalshi.FillWithResolution{Fill: f}
			if result, ok := results[f.Ticker]; ok {
				r.MarketStatus = "settled"
				r.MarketResult = result
			}
			fills = append(fills, r)
		}
	}

	path := *out
	if path == "" {
		path = filepath.Join(cfg.DataDir, "trades.csv")
	}

	if err := export.ExportTradesCSV(path, fills); err != nil {
		logger.Fatal("writing CSV", zap.Error(err))
	}

	if *keepDays > 0 {
		if _, err := mgr.CleanupOldSnapshots(*keepDays); err != nil {
			logger.Warn("snapshot cleanup failed", zap.Error(err))
		}
	}

	fmt.Printf("Exported %d trades to %s\n", len(fills), path)
}

func newClient(cfg config.Config, logger *zap.Logger) (*kalshi.Client, error) {
	if cfg.KalshiPrivateKey != "" {
		return kalshi.NewClient(cfg.KalshiAPIKeyID, cfg.KalshiPrivateKey, cfg.KalshiDemo, logger)
	}
	if cfg.KalshiKeyPath != "" {
		return kalshi.NewClientFromKeyFile(cfg.KalshiAPIKeyID, cfg.KalshiKeyPath, cfg.KalshiDemo, logger)
	}
	return nil, fmt.Errorf("no private key configured")
}
