// Package twelvedata provides a client for the Twelve Data price API.
package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/models"
)

const (
	DefaultBaseURL   = "https://api.twelvedata.com"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 8 // requests per minute on the free tier, per second here is generous headroom
)

// flexFloat64 handles JSON values that may be either a number or a string.
// Twelve Data returns prices as strings.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// Client calls the Twelve Data /price endpoint.
type Client struct {
	baseURL    string
	apiKey     string
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

// NewClient creates a new Twelve Data client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
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

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twelvedata API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

type priceResponse struct {
	Price flexFloat64 `json:"price"`
	// Error envelope: Twelve Data reports failures inside a 200 body.
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// LatestPrice fetches the current price for symbol. The symbol is mapped to
// Twelve Data's format by asset type before the request.
func (c *Client) LatestPrice(ctx context.Context, symbol, assetType string) (float64, error) {
	if c.apiKey == "" {
		return 0, fmt.Errorf("twelvedata: no API key configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("symbol", MapSymbol(symbol, assetType))
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s/price?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("symbol", symbol).Msg("twelvedata price request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "/price",
		}
	}

	var pr priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if pr.Status == "error" {
		return 0, &APIError{StatusCode: resp.StatusCode, Message: pr.Message, Endpoint: "/price"}
	}
	if pr.Price <= 0 {
		return 0, fmt.Errorf("twelvedata: no price for %q", symbol)
	}

	return float64(pr.Price), nil
}

// MapSymbol converts an internal symbol to Twelve Data's format. Forex pairs
// use a slash separator; well-known commodity names map to their metal or
// energy pairs.
func MapSymbol(symbol, assetType string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	switch symbol {
	case "GOLD":
		return "XAU/USD"
	case "SILVER":
		return "XAG/USD"
	case "PLATINUM":
		return "XPT/USD"
	case "CRUDE", "CRUDEOIL", "WTI":
		return "WTI/USD"
	case "BRENT":
		return "BRENT/USD"
	}

	if assetType == models.AssetTypeForex && len(symbol) == 6 && !strings.Contains(symbol, "/") {
		return symbol[:3] + "/" + symbol[3:]
	}

	return symbol
}
