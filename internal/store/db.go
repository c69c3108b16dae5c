package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"kalshi-portfolio-tracker/internal/kalshi"
)

// Store persists fetched fills and settlements so repeated fetches
// accumulate history beyond what the API still serves.
type Store struct {
	db *sql.DB
}

// Open creates or opens the portfolio database
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS fills (
		trade_id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		ticker TEXT NOT NULL,
		side TEXT NOT NULL,
		action TEXT NOT NULL,
		count INTEGER NOT NULL,
		yes_price INTEGER NOT NULL,
		no_price INTEGER NOT NULL,
		is_taker INTEGER NOT NULL,
		created_time TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fills_ticker ON fills(ticker);
	CREATE INDEX IF NOT EXISTS idx_fills_created ON fills(created_time);

	CREATE TABLE IF NOT EXISTS settlements (
		ticker TEXT NOT NULL,
		market_result TEXT NOT NULL,
		yes_count INTEGER NOT NULL,
		no_count INTEGER NOT NULL,
		yes_total_cost INTEGER NOT NULL,
		no_total_cost INTEGER NOT NULL,
		revenue INTEGER NOT NULL,
		settled_time TEXT NOT NULL,
		PRIMARY KEY (ticker, settled_time)
	);

	CREATE INDEX IF NOT EXISTS idx_settlements_time ON settlements(settled_time);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertFills inserts fills, skipping trade IDs already stored.
// Returns the number of newly inserted rows.
func (s *Store) UpsertFills(fills []kalshi.Fill) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO fills
		(trade_id, order_id, ticker, side, action, count, yes_price, no_price, is_taker, created_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, f := range fills {
		res, err := stmt.Exec(f.TradeID, f.OrderID, f.Ticker, string(f.Side), f.Action,
			f.Count, f.YesPrice, f.NoPrice, f.IsTaker, f.CreatedTime)
		if err != nil {
			return 0, fmt.Errorf("inserting fill %s: %w", f.TradeID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing fills: %w", err)
	}
	return inserted, nil
}

// UpsertSettlements inserts settlements, skipping rows already stored.
// Returns the number of newly inserted rows.
func (s *Store) UpsertSettlements(settlements []kalshi.Settlement) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO settlements
		(ticker, market_result, yes_count, no_count, yes_total_cost, no_total_cost, revenue, settled_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, st := range settlements {
		res, err := stmt.Exec(st.Ticker, st.MarketResult, st.YesCount, st.NoCount,
			st.YesTotalCost, st.NoTotalCost, st.Revenue, st.SettledTime)
		if err != nil {
			return 0, fmt.Errorf("inserting settlement %s: %w", st.Ticker, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing settlements: %w", err)
	}
	return inserted, nil
}

// ListFills retrieves all stored fills, newest first
func (s *Store) ListFills() ([]kalshi.Fill, error) {
	rows, err := s.db.Query(`
		SELECT trade_id, order_id, ticker, side, action, count, yes_price, no_price, is_taker, created_time
		FROM fills
		ORDER BY created_time DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying fills: %w", err)
	}
	defer rows.Close()

	return scanFills(rows)
}

// ListFillsByTicker retrieves stored fills for one market, newest first
func (s *Store) ListFillsByTicker(ticker string) ([]kalshi.Fill, error) {
	rows, err := s.db.Query(`
		SELECT trade_id, order_id, ticker, side, action, count, yes_price, no_price, is_taker, created_time
		FROM fills
		WHERE ticker = ?
		ORDER BY created_time DESC
	`, ticker)
	if err != nil {
		return nil, fmt.Errorf("querying fills by ticker: %w", err)
	}
	defer rows.Close()

	return scanFills(rows)
}

func scanFills(rows *sql.Rows) ([]kalshi.Fill, error) {
	var fills []kalshi.Fill
	for rows.Next() {
		var f kalshi.Fill
		var side string
		if err := rows.Scan(&f.TradeID, &f.OrderID, &f.Ticker, &side, &f.Action,
			&f.Count, &f.YesPrice, &f.NoPrice, &f.IsTaker, &f.CreatedTime); err != nil {
			return nil, fmt.Errorf("scanning fill row: %w", err)
		}
		f.Side = kalshi.Side(side)
		fills = append(fills, f)
	}
	return fills, rows.Err()
}

// ListSettlements retrieves all stored settlements, newest first
func (s *Store) ListSettlements() ([]kalshi.Settlement, error) {
	rows, err := s.db.Query(`
		SELECT ticker, market_result, yes_count, no_count, yes_total_cost, no_total_cost, revenue, settled_time
		FROM settlements
		ORDER BY settled_time DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying settlements: %w", err)
	}
	defer rows.Close()

	var settlements []kalshi.Settlement
	for rows.Next() {
		var st kalshi.Settlement
		if err := rows.Scan(&st.Ticker, &st.MarketResult, &st.YesCount, &st.NoCount,
			&st.YesTotalCost, &st.NoTotalCost, &st.Revenue, &st.SettledTime); err != nil {
			return nil, fmt.Errorf("scanning settlement row: %w", err)
		}
		settlements = append(settlements, st)
	}
	return settlements, rows.Err()
}

// CountFills returns the number of stored fills
func (s *Store) CountFills() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM fills").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting fills: %w", err)
	}
	return n, nil
}
