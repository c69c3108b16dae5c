package kalshi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// CreateOrder places a limit order.
// Uses IOC (Immediate-Or-Cancel) to avoid resting orders. The serialized
// request body is exactly what gets signed and transmitted.
func (c *Client) CreateOrder(ticker string, side Side, action OrderAction, contracts, limitPrice int) (*Order, error) {
	if contracts < 1 {
		return nil, fmt.Errorf("contracts must be at least 1, got %d", contracts)
	}
	if limitPrice < 1 || limitPrice > 99 {
		return nil, fmt.Errorf("limit price must be 1-99 cents, got %d", limitPrice)
	}

	orderReq := CreateOrderRequest{
		Ticker:        ticker,
		ClientOrderID: uuid.New().String(),
		Side:          side,
		Action:        action,
		Count:         contracts,
		Type:          OrderTypeLimit,
		TimeInForce:   TimeInForceIOC,
	}

	// Set price based on side
	if side == SideYes {
		orderReq.YesPrice = limitPrice
	} else {
		orderReq.NoPrice = limitPrice
	}

	jsonBody, err := json.Marshal(orderReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling order request: %w", err)
	}

	body, err := c.doAuthenticated(http.MethodPost, "/portfolio/orders", jsonBody)
	if err != nil {
		return nil, fmt.Errorf("placing order: %w", err)
	}

	var resp OrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing order response: %w", err)
	}

	return &resp.Order, nil
}

// GetOrder fetches an order by ID
func (c *Client) GetOrder(orderID string) (*Order, error) {
	path := fmt.Sprintf("/portfolio/orders/%s", url.PathEscape(orderID))
	body, err := c.doAuthenticated(http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching order: %w", err)
	}

	var resp struct {
		Order Order `json:"order"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing order response: %w", err)
	}

	return &resp.Order, nil
}

// CancelOrder cancels an open order
func (c *Client) CancelOrder(orderID string) error {
	path := fmt.Sprintf("/portfolio/orders/%s", url.PathEscape(orderID))
	_, err := c.doAuthenticated(http.MethodDelete, path, nil)
	if err != nil {
		return fmt.Errorf("canceling order: %w", err)
	}
	return nil
}
