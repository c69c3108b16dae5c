package kalshi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// GetExchangeStatus checks if the exchange is open for trading.
// Public endpoint, no signature required.
func (c *Client) GetExchangeStatus() (*ExchangeStatusResponse, error) {
	body, err := c.http.Get(c.host+basePath+"/exchange/status", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching exchange status: %w", err)
	}

	var resp ExchangeStatusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing exchange status: %w", err)
	}

	return &resp, nil
}

// IsTradingActive returns true if the exchange is open for trading
func (c *Client) IsTradingActive() (bool, error) {
	status, err := c.GetExchangeStatus()
	if err != nil {
		return false, err
	}
	return status.TradingActive && status.ExchangeActive, nil
}

// GetMarket fetches details for a specific market
func (c *Client) GetMarket(ticker string) (*Market, error) {
	path := fmt.Sprintf("/markets/%s", url.PathEscape(ticker))
	body, err := c.doAuthenticated(http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching market: %w", err)
	}

	var resp MarketResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing market response: %w", err)
	}

	return &resp.Market, nil
}

// FillWithResolution pairs a fill with the final result of its market,
// once known. Fills on unsettled markets carry an empty result.
type FillWithResolution struct {
	Fill
	MarketStatus string `json:"market_status"`
	MarketResult string `json:"market_result"`
}

// AnnotateResolutions looks up the market outcome for each fill's ticker.
// Markets are fetched once per distinct ticker; a lookup failure leaves the
// resolution fields empty rather than failing the whole batch, since old
// tickers drop out of the API.
func (c *Client) AnnotateResolutions(fills []Fill) []FillWithResolution {
	markets := make(map[string]*Market)
	out := make([]FillWithResolution, 0, len(fills))

	for _, f := range fills {
		m, ok := markets[f.Ticker]
		if !ok {
			fetched, err := c.GetMarket(f.Ticker)
			if err != nil {
				c.logger.Warn("market lookup failed",
					zap.String("ticker", f.Ticker),
					zap.Error(err),
				)
			}
			m = fetched // nil on error, cached so we don't retry per fill
			markets[f.Ticker] = m
		}

		r := FillWithResolution{Fill: f}
		if m != nil {
			r.MarketStatus = m.Status
			r.MarketResult = m.Result
		}
		out = append(out, r)
	}

	return out
}
