// Package yahoo provides a fallback price client backed by the public Yahoo
// Finance chart endpoint.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5
)

// Client fetches quotes from Yahoo Finance. Used as the fallback provider,
// it needs no API key.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				Currency           string  `json:"currency"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// LatestPrice fetches the regular-market price for symbol from the chart
// endpoint.
func (c *Client) LatestPrice(ctx context.Context, symbol, assetType string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, MapSymbol(symbol, assetType))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	// Yahoo rejects requests without a browser-like user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; wealthfolio/1.0)")

	c.logger.Debug().Str("symbol", symbol).Msg("yahoo price request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("yahoo API error: status %d: %s", resp.StatusCode, string(body))
	}

	var cr chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if cr.Chart.Error != nil {
		return 0, fmt.Errorf("yahoo API error: %s: %s", cr.Chart.Error.Code, cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 {
		return 0, fmt.Errorf("yahoo: empty result for %q", symbol)
	}

	price := cr.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, fmt.Errorf("yahoo: no price for %q", symbol)
	}

	return price, nil
}

// MapSymbol converts an internal symbol to Yahoo's ticker format. Forex pairs
// take an =X suffix; well-known commodities map to their futures tickers.
func MapSymbol(symbol, assetType string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	switch symbol {
	case "GOLD":
		return "GC=F"
	case "SILVER":
		return "SI=F"
	case "PLATINUM":
		return "PL=F"
	case "CRUDE", "CRUDEOIL", "WTI":
		return "CL=F"
	case "BRENT":
		return "BZ=F"
	}

	if assetType == models.AssetTypeForex && !strings.HasSuffix(symbol, "=X") {
		return strings.ReplaceAll(symbol, "/", "") + "=X"
	}

	return symbol
}
