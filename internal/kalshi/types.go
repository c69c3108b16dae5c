package kalshi

import "fmt"

// TimeInForce options for orders
// Per docs: https://docs.kalshi.com/api-reference/orders/create-order
type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "good_till_canceled"  // Default
	TimeInForceIOC TimeInForce = "immediate_or_cancel" // Take available, cancel rest
	TimeInForceFOK TimeInForce = "fill_or_kill"        // Fill entire order or nothing
)

// Account & Portfolio

// BalanceResponse from GET /portfolio/balance
// Per docs: https://docs.kalshi.com/api-reference/portfolio/get-balance
type BalanceResponse struct {
	Balance        int64 `json:"balance"`         // Available balance in cents
	PortfolioValue int64 `json:"portfolio_value"` // Portfolio value in cents
	UpdatedTs      int64 `json:"updated_ts"`      // Unix timestamp of last update
}

// Fill represents one trade execution
// Per docs: https://docs.kalshi.com/api-reference/portfolio/get-fills
type Fill struct {
	TradeID     string `json:"trade_id"`
	OrderID     string `json:"order_id"`
	Ticker      string `json:"ticker"`
	Side        Side   `json:"side"`
	Action      string `json:"action"` // "buy" or "sell"
	Count       int    `json:"count"`
	YesPrice    int    `json:"yes_price"` // Cents
	NoPrice     int    `json:"no_price"`  // Cents
	IsTaker     bool   `json:"is_taker"`
	CreatedTime string `json:"created_time"` // ISO datetime
}

// PriceCents returns the fill price in cents for the traded side.
func (f *Fill) PriceCents() int {
	if f.Side == SideYes {
		return f.YesPrice
	}
	return f.NoPrice
}

// CostCents returns the total contract cost of this fill in cents.
func (f *Fill) CostCents() int64 {
	return int64(f.Count) * int64(f.PriceCents())
}

// FillsResponse from GET /portfolio/fills
type FillsResponse struct {
	Fills  []Fill `json:"fills"`
	Cursor string `json:"cursor"`
}

// Settlement represents a market resolution payout
// Per docs: https://docs.kalshi.com/api-reference/portfolio/get-portfolio-settlements
type Settlement struct {
	Ticker       string `json:"ticker"`
	MarketResult string `json:"market_result"` // "yes" or "no"
	YesCount     int    `json:"yes_count"`
	NoCount      int    `json:"no_count"`
	YesTotalCost int64  `json:"yes_total_cost"` // Cents
	NoTotalCost  int64  `json:"no_total_cost"`  // Cents
	Revenue      int64  `json:"revenue"`        // Cents
	SettledTime  string `json:"settled_time"`   // ISO datetime
}

// SettlementsResponse from GET /portfolio/settlements
type SettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
	Cursor      string       `json:"cursor"`
}

// MarketPosition represents a single market position
// Per docs: https://docs.kalshi.com/api-reference/portfolio/get-positions
type MarketPosition struct {
	Ticker             string `json:"ticker"`
	TotalTraded        int    `json:"total_traded"`
	Position           int    `json:"position"`        // Positive = yes, negative = no
	MarketExposure     int    `json:"market_exposure"` // In cents
	RealizedPnl        int    `json:"realized_pnl"`    // In cents
	RestingOrdersCount int    `json:"resting_orders_count"`
	FeesPaid           int    `json:"fees_paid"`       // In cents
	LastUpdatedTs      string `json:"last_updated_ts"` // ISO datetime
}

// PositionsResponse from GET /portfolio/positions
type PositionsResponse struct {
	MarketPositions []MarketPosition `json:"market_positions"`
	Cursor          string           `json:"cursor"`
}

// Orders

// Side represents order side (yes/no)
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// OrderAction represents buy/sell
type OrderAction string

const (
	ActionBuy  OrderAction = "buy"
	ActionSell OrderAction = "sell"
)

// OrderType represents order type
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

// CreateOrderRequest for POST /portfolio/orders
// Based on official Kalshi API docs: https://docs.kalshi.com/api-reference/orders/create-order
type CreateOrderRequest struct {
	Ticker        string      `json:"ticker"`
	ClientOrderID string      `json:"client_order_id,omitempty"`
	Side          Side        `json:"side"`
	Action        OrderAction `json:"action"`
	Count         int         `json:"count,omitempty"`         // Number of contracts (min: 1)
	Type          OrderType   `json:"type,omitempty"`          // "limit" or "market"
	YesPrice      int         `json:"yes_price,omitempty"`     // Limit price for YES in cents (1-99)
	NoPrice       int         `json:"no_price,omitempty"`      // Limit price for NO in cents (1-99)
	TimeInForce   TimeInForce `json:"time_in_force,omitempty"` // gtc, ioc, or fok
}

// OrderResponse from POST /portfolio/orders
type OrderResponse struct {
	Order Order `json:"order"`
}

// Order represents an order
// Based on official Kalshi API docs
type Order struct {
	OrderID        string      `json:"order_id"`
	ClientOrderID  string      `json:"client_order_id"`
	Ticker         string      `json:"ticker"`
	Status         OrderStatus `json:"status"`
	Side           Side        `json:"side"`
	Action         OrderAction `json:"action"`
	Type           OrderType   `json:"type"`
	YesPrice       int         `json:"yes_price"`
	NoPrice        int         `json:"no_price"`
	CreatedTime    string      `json:"created_time"`
	LastUpdateTime string      `json:"last_update_time"`

	// Count fields
	InitialCount   int `json:"initial_count"`
	RemainingCount int `json:"remaining_count"`
	FillCount      int `json:"fill_count"` // Filled contracts

	// Cost/fee fields (in cents)
	TakerFees     int   `json:"taker_fees"`
	MakerFees     int   `json:"maker_fees"`
	TakerFillCost int64 `json:"taker_fill_cost"` // Total cost paid as taker
	MakerFillCost int64 `json:"maker_fill_cost"` // Total cost paid as maker
}

// AvgFillPrice calculates average fill price from fill cost and count
func (o *Order) AvgFillPrice() float64 {
	if o.FillCount == 0 {
		return 0
	}
	totalCost := o.TakerFillCost + o.MakerFillCost
	return float64(totalCost) / float64(o.FillCount)
}

// OrdersResponse from GET /portfolio/orders
type OrdersResponse struct {
	Orders []Order `json:"orders"`
	Cursor string  `json:"cursor"`
}

// OrderStatus represents order status
type OrderStatus string

const (
	OrderStatusResting  OrderStatus = "resting"
	OrderStatusCanceled OrderStatus = "canceled" // Note: Kalshi uses "canceled" not "cancelled"
	OrderStatusExecuted OrderStatus = "executed"
	OrderStatusPending  OrderStatus = "pending"
)

// Exchange Status

// ExchangeStatusResponse from GET /exchange/status
type ExchangeStatusResponse struct {
	ExchangeActive              bool   `json:"exchange_active"`
	TradingActive               bool   `json:"trading_active"`
	ExchangeEstimatedResumeTime string `json:"exchange_estimated_resume_time,omitempty"`
}

// Market

// MarketResponse from GET /markets/{ticker}
type MarketResponse struct {
	Market Market `json:"market"`
}

// Market represents a Kalshi market
type Market struct {
	Ticker         string `json:"ticker"`
	EventTicker    string `json:"event_ticker"`
	Title          string `json:"title"`
	Status         string `json:"status"` // "active", "finalized", etc.
	Result         string `json:"result"` // "yes"/"no" once settled
	YesBid         int    `json:"yes_bid"`
	YesAsk         int    `json:"yes_ask"`
	NoBid          int    `json:"no_bid"`
	NoAsk          int    `json:"no_ask"`
	LastPrice      int    `json:"last_price"`
	Volume         int    `json:"volume"`
	OpenInterest   int    `json:"open_interest"`
	ExpirationTime string `json:"expiration_time"`
	CloseTime      string `json:"close_time"`
}

// Error Response

// APIError represents a Kalshi API error
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
