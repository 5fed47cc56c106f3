package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrProductNotFound is returned when the backend has no such product.
	ErrProductNotFound = errors.New("product not found")

	// ErrOrderRejected is returned when the backend refuses an order
	// (stock conflict, validation failure).
	ErrOrderRejected = errors.New("order rejected by backend")

	// ErrBackendUnavailable is returned on 5xx responses.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Config holds the commerce backend connection settings.
type Config struct {
	// BaseURL is the backend API root, e.g. https://api.tienda.example
	BaseURL string

	// Timeout bounds each request. Defaults to 15s.
	Timeout time.Duration
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("backend base URL is required")
	}
	return nil
}

// Client talks to the commerce backend that owns catalog, stock and orders.
type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GetProduct fetches a catalog product with its variants.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, "/api/productos/"+id, nil)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, ErrProductNotFound
	case status >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrBackendUnavailable, status)
	case status >= 400:
		return nil, fmt.Errorf("unexpected status %d: %s", status, truncate(body))
	}

	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}
	return &product, nil
}

// SubmitOrder posts the order. The caller clears the cart only after this
// returns successfully.
func (c *Client) SubmitOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	body, status, err := c.doRequest(ctx, http.MethodPost, "/api/pedidos", req)
	if err != nil {
		return nil, err
	}
	switch {
	case status >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrBackendUnavailable, status)
	case status >= 400:
		return nil, fmt.Errorf("%w: %s", ErrOrderRejected, truncate(body))
	}

	var order OrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	return &order, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func truncate(body []byte) string {
	const max = 256
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
