package main

import (
	"fmt"
	"os"

	"kalshi-portfolio-tracker/internal/config"
	"kalshi-portfolio-tracker/internal/kalshi"
	"kalshi-portfolio-tracker/internal/logging"
)

// authcheck verifies credentials end to end: loads the key, hits the public
// exchange status endpoint, then an authenticated balance request. Run this
// after setting up .env to confirm signing works before anything else.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	var (
		client *kalshi.Client
		err    error
	)
	if cfg.KalshiPrivateKey != "" {
		client, err = kalshi.NewClient(cfg.KalshiAPIKeyID, cfg.KalshiPrivateKey, cfg.KalshiDemo, logger)
	} else {
		client, err = kalshi.NewClientFromKeyFile(cfg.KalshiAPIKeyID, cfg.KalshiKeyPath, cfg.KalshiDemo, logger)
	}
	if err != nil {
		// Key text is never printed, only the parse failure.
		fmt.Fprintf(os.Stderr, "key setup failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Private key loaded OK")

	active, err := client.IsTradingActive()
	if err != nil {
		fmt.Fprintf(os.Stderr, "exchange status failed (network problem?): %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exchange reachable, trading active=%v\n", active)

	balance, err := client.GetBalance()
	if err != nil {
		fmt.Fprintf(os.Stderr, "authenticated request failed (check API key and key pair): %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Authentication OK, balance $%.2f\n", float64(balance.Balance)/100.0)
}
