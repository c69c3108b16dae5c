package kalshi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Snapshot bundles everything the portfolio endpoints return, plus fetch
// metadata. It is what gets persisted as a JSON data file.
type Snapshot struct {
	ExchangeStatus *ExchangeStatusResponse `json:"exchange_status,omitempty"`
	Balance        *BalanceResponse        `json:"balance,omitempty"`
	Orders         []Order                 `json:"orders"`
	Fills          []Fill                  `json:"fills"`
	Positions      []MarketPosition        `json:"positions"`
	Settlements    []Settlement            `json:"settlements"`
	FetchedAt      time.Time               `json:"fetched_at"`
	APIBase        string                  `json:"api_base"`
}

// GetBalance fetches the account balance
func (c *Client) GetBalance() (*BalanceResponse, error) {
	body, err := c.doAuthenticated(http.MethodGet, "/portfolio/balance", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching balance: %w", err)
	}

	var resp BalanceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing balance response: %w", err)
	}

	return &resp, nil
}

// GetFills fetches trade executions, following the pagination cursor until
// exhausted. limit caps the page size (max 1000 per the API).
func (c *Client) GetFills(limit int) ([]Fill, error) {
	var all []Fill
	cursor := ""

	for {
		path := fmt.Sprintf("/portfolio/fills?limit=%d", limit)
		if cursor != "" {
			path += "&cursor=" + url.QueryEscape(cursor)
		}

		body, err := c.doAuthenticated(http.MethodGet, path, nil)
		if err != nil {
			return nil, fmt.Errorf("fetching fills: %w", err)
		}

		var resp FillsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parsing fills response: %w", err)
		}

		all = append(all, resp.Fills...)

		if resp.Cursor == "" {
			break
		}
		cursor = resp.Cursor
	}

	return all, nil
}

// GetOrders fetches portfolio orders, following the pagination cursor.
func (c *Client) GetOrders(limit int) ([]Order, error) {
	var all []Order
	cursor := ""

	for {
		path := fmt.Sprintf("/portfolio/orders?limit=%d", limit)
		if cursor != "" {
			path += "&cursor=" + url.QueryEscape(cursor)
		}

		body, err := c.doAuthenticated(http.MethodGet, path, nil)
		if err != nil {
			return nil, fmt.Errorf("fetching orders: %w", err)
		}

		var resp OrdersResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parsing orders response: %w", err)
		}

		all = append(all, resp.Orders...)

		if resp.Cursor == "" {
			break
		}
		cursor = resp.Cursor
	}

	return all, nil
}

// GetPositions fetches all open market positions
func (c *Client) GetPositions() ([]MarketPosition, error) {
	var allPositions []MarketPosition
	cursor := ""

	for {
		path := "/portfolio/positions"
		if cursor != "" {
			path = fmt.Sprintf("%s?cursor=%s", path, url.QueryEscape(cursor))
		}

		body, err := c.doAuthenticated(http.MethodGet, path, nil)
		if err != nil {
			return nil, fmt.Errorf("fetching positions: %w", err)
		}

		var resp PositionsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parsing positions response: %w", err)
		}

		allPositions = append(allPositions, resp.MarketPositions...)

		if resp.Cursor == "" {
			break
		}
		cursor = resp.Cursor
	}

	return allPositions, nil
}

// GetSettlements fetches market resolution payouts, following the
// pagination cursor.
func (c *Client) GetSettlements(limit int) ([]Settlement, error) {
	var all []Settlement
	cursor := ""

	for {
		path := fmt.Sprintf("/portfolio/settlements?limit=%d", limit)
		if cursor != "" {
			path += "&cursor=" + url.QueryEscape(cursor)
		}

		body, err := c.doAuthenticated(http.MethodGet, path, nil)
		if err != nil {
			return nil, fmt.Errorf("fetching settlements: %w", err)
		}

		var resp SettlementsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parsing settlements response: %w", err)
		}

		all = append(all, resp.Settlements...)

		if resp.Cursor == "" {
			break
		}
		cursor = resp.Cursor
	}

	return all, nil
}

// FetchAll pulls every portfolio dataset in one pass. Individual endpoint
// failures abort the fetch: a partial snapshot silently missing fills or
// settlements would corrupt downstream PnL numbers.
func (c *Client) FetchAll(limit int) (*Snapshot, error) {
	c.logger.Info("starting portfolio fetch", zap.String("api_base", c.host+basePath))

	status, err := c.GetExchangeStatus()
	if err != nil {
		return nil, err
	}

	balance, err := c.GetBalance()
	if err != nil {
		return nil, err
	}

	orders, err := c.GetOrders(limit)
	if err != nil {
		return nil, err
	}

	fills, err := c.GetFills(limit)
	if err != nil {
		return nil, err
	}

	positions, err := c.GetPositions()
	if err != nil {
		return nil, err
	}

	settlements, err := c.GetSettlements(limit)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ExchangeStatus: status,
		Balance:        balance,
		Orders:         orders,
		Fills:          fills,
		Positions:      positions,
		Settlements:    settlements,
		FetchedAt:      time.Now(),
		APIBase:        c.host + basePath,
	}

	c.logger.Info("portfolio fetch complete",
		zap.Int("orders", len(orders)),
		zap.Int("fills", len(fills)),
		zap.Int("positions", len(positions)),
		zap.Int("settlements", len(settlements)),
	)

	return snap, nil
}
