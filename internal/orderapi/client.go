// Package orderapi is the HTTP client for the order service. It satisfies
// the checkout flow's OrderPlacer so the storefront submits through it.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/checkout"
)

// Client talks to the order service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the order service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// placedResponse is the order service's 201 body.
type placedResponse struct {
	OrderID      string    `json:"order_id"`
	Status       string    `json:"status"`
	DeliveryDate time.Time `json:"delivery_date"`
	TotalAmount  string    `json:"total_amount"`
}

// PlaceOrder submits the order. A 409 from the service surfaces as
// checkout.ErrConflict so the wizard can keep the visitor at confirmation.
func (c *Client) PlaceOrder(ctx context.Context, req checkout.OrderRequest) (checkout.Confirmation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return checkout.Confirmation{}, fmt.Errorf("marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return checkout.Confirmation{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return checkout.Confirmation{}, fmt.Errorf("post order: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		var placed placedResponse
		if err := json.NewDecoder(resp.Body).Decode(&placed); err != nil {
			return checkout.Confirmation{}, fmt.Errorf("decode response: %w", err)
		}
		total, err := decimal.NewFromString(placed.TotalAmount)
		if err != nil {
			return checkout.Confirmation{}, fmt.Errorf("parse total %q: %w", placed.TotalAmount, err)
		}
		return checkout.Confirmation{
			OrderID:      placed.OrderID,
			DeliveryDate: placed.DeliveryDate,
			TotalAmount:  total,
		}, nil
	case http.StatusConflict:
		return checkout.Confirmation{}, checkout.ErrConflict
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return checkout.Confirmation{}, fmt.Errorf("order service returned %d: %s", resp.StatusCode, detail)
	}
}
