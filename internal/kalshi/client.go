package kalshi

import (
	"bytes"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"kalshi-portfolio-tracker/internal/api"
)

const (
	// Production API - per official Kalshi docs
	prodHost = "https://api.elections.kalshi.com"

	// Demo API (for testing)
	demoHost = "https://demo-api.kalshi.co"

	// All trade API endpoints live under this prefix. The signature covers
	// the full wire path, prefix included.
	basePath = "/trade-api/v2"

	// Rate limits: Basic tier = 10 writes/sec, 100 reads/sec
	requestsPerMinute = 600
	requestTimeout    = 15 * time.Second
	maxRetries        = 3
)

// Client handles all Kalshi API communication.
// Authentication is via API key + RSA request signature.
type Client struct {
	http   *api.RateLimitedClient
	host   string
	signer *Signer
	logger *zap.Logger

	// Use demo mode
	demo bool
}

// NewClient creates a client from the API key ID and private key content.
// This is the preferred constructor for cloud deployments where the key is
// passed as an environment variable.
func NewClient(keyID, privateKeyPEM string, demo bool, logger *zap.Logger) (*Client, error) {
	key, err := LoadPrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}
	return newClient(keyID, key, demo, logger)
}

// NewClientFromKeyFile creates a client loading the private key from a PEM
// file. Preferred for local development.
func NewClientFromKeyFile(keyID, privateKeyPath string, demo bool, logger *zap.Logger) (*Client, error) {
	key, err := LoadPrivateKeyFile(privateKeyPath)
	if err != nil {
		return nil, err
	}
	return newClient(keyID, key, demo, logger)
}

func newClient(keyID string, key *rsa.PrivateKey, demo bool, logger *zap.Logger) (*Client, error) {
	signer, err := NewSigner(keyID, key)
	if err != nil {
		return nil, fmt.Errorf("creating signer: %w", err)
	}

	host := prodHost
	if demo {
		host = demoHost
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Debug("kalshi client configured",
		zap.String("key_id", signer.KeyID()),
		zap.Bool("demo", demo),
	)

	return &Client{
		http:   api.NewRateLimitedClient(requestsPerMinute, requestTimeout, maxRetries),
		host:   host,
		signer: signer,
		logger: logger,
		demo:   demo,
	}, nil
}

// doAuthenticated performs a signed request against the trade API.
// endpoint is the path under /trade-api/v2, including any query string.
// body is the exact JSON that will be transmitted, or nil.
//
// The signed path is the full wire path (prefix + endpoint + query) and the
// signed body is byte-identical to what is sent; any mismatch fails
// server-side verification.
func (c *Client) doAuthenticated(method, endpoint string, body []byte) ([]byte, error) {
	fullPath := basePath + endpoint

	headers, err := c.signer.Headers(method, fullPath, string(body))
	if err != nil {
		// Never send unsigned: a missing signature just turns into an
		// opaque 401 after a wasted round trip.
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, c.host+fullPath, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("kalshi request",
		zap.String("method", method),
		zap.String("path", fullPath),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("unauthorized (check API key): %s", string(respBody))
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limited (429): %s", string(respBody))
	}

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Code != "" {
			return nil, fmt.Errorf("API error %d: %w", resp.StatusCode, &apiErr)
		}
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// IsDemo returns true if using the demo API.
func (c *Client) IsDemo() bool {
	return c.demo
}
