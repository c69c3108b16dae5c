package main

import (
	"fmt"

	"go.uber.org/zap"

	"kalshi-portfolio-tracker/internal/config"
	"kalshi-portfolio-tracker/internal/export"
	"kalshi-portfolio-tracker/internal/kalshi"
	"kalshi-portfolio-tracker/internal/logging"
	"kalshi-portfolio-tracker/internal/store"
)

// fetch pulls the full portfolio (balance, orders, fills, positions,
// settlements), saves a timestamped JSON snapshot, and folds fills and
// settlements into the local SQLite history.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	if err := config.Validate(cfg); err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		logger.Fatal("creating client", zap.Error(err))
	}
	if client.IsDemo() {
		logger.Warn("demo API in use, data is not from the production exchange")
	}

	snap, err := client.FetchAll(cfg.FetchLimit)
	if err != nil {
		logger.Fatal("fetching portfolio", zap.Error(err))
	}

	mgr, err := export.NewManager(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("opening data dir", zap.Error(err))
	}

	path, err := mgr.SaveSnapshot(snap)
	if err != nil {
		logger.Fatal("saving snapshot", zap.Error(err))
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	newFills, err := db.UpsertFills(snap.Fills)
	if err != nil {
		logger.Fatal("storing fills", zap.Error(err))
	}
	newSettlements, err := db.UpsertSettlements(snap.Settlements)
	if err != nil {
		logger.Fatal("storing settlements", zap.Error(err))
	}

	logger.Info("fetch complete",
		zap.String("snapshot", path),
		zap.Int("new_fills", newFills),
		zap.Int("new_settlements", newSettlements),
	)

	if snap.Balance != nil {
		fmt.Printf("Balance: $%.2f (portfolio value $%.2f)\n",
			float64(snap.Balance.Balance)/100.0,
			float64(snap.Balance.PortfolioValue)/100.0)
	}
	fmt.Printf("Snapshot saved to %s\n", path)
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
