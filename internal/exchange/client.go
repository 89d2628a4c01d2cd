package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"tally/internal/config"
	"tally/internal/models"

	"github.com/shopspring/decimal"
)

// Response represents the response from the exchange rate API
type Response struct {
	Rate decimal.Decimal `json:"rate"`
}

// Client fetches conversion rates from an HTTP exchange rate API
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new exchange rate API client. Every request is
// bounded by the configured timeout.
func NewClient(cfg config.ExchangeConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Rate fetches the conversion rate for one currency pair
func (c *Client) Rate(ctx context.Context, from, to models.Currency) (decimal.Decimal, error) {
	params := url.Values{}
	params.Add("from", string(from))
	params.Add("to", string(to))

	reqURL := fmt.Sprintf("%s/rate?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, &RateError{Currency: from, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, &RateError{Currency: from, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, &RateError{Currency: from, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return decimal.Zero, &RateError{Currency: from, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if response.Rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, &RateError{Currency: from, Err: fmt.Errorf("non-positive rate %s", response.Rate)}
	}

	return response.Rate, nil
}

var _ Gateway = (*Client)(nil)
