// Package yahoo provides a keyless quote client against the Yahoo
// Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"whaletrack/internal/common"
	"whaletrack/internal/interfaces"
	"whaletrack/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the PriceProvider interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	now        func() time.Time
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
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
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// chartResponse is the subset of the chart API payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string  `json:"symbol"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				RegularMarketVolume  int64   `json:"regularMarketVolume"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote fetches a one-month daily chart for the ticker and folds it into
// a single PriceRecord: current price and day range from the chart meta,
// one-month change from the first and last daily closes.
func (c *Client) Quote(ctx context.Context, ticker string) (*models.PriceRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := fmt.Sprintf("/v8/finance/chart/%s", ticker)
	reqURL := fmt.Sprintf("%s%s?range=1mo&interval=1d", c.baseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; whaletrack)")

	c.logger.Debug().Str("ticker", ticker).Msg("Yahoo quote request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &models.APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   endpoint,
		}
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s (%s)",
			ticker, chart.Chart.Error.Description, chart.Chart.Error.Code)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", ticker)
	}

	result := chart.Chart.Result[0]
	meta := result.Meta
	if meta.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("no market price for %s", ticker)
	}

	record := &models.PriceRecord{
		Ticker:      ticker,
		Price:       decimal.NewFromFloat(meta.RegularMarketPrice),
		DayHigh:     decimal.NewFromFloat(meta.RegularMarketDayHigh),
		DayLow:      decimal.NewFromFloat(meta.RegularMarketDayLow),
		PrevClose:   decimal.NewFromFloat(meta.ChartPreviousClose),
		Volume:      meta.RegularMarketVolume,
		Change1MPct: monthChange(result.Indicators.Quote, meta.RegularMarketPrice),
		FetchedAt:   c.now(),
	}

	return record, nil
}

// monthChange computes the percent move from the earliest close in the
// window to the latest price. Sparse series (halts, new listings) carry
// nil closes which are skipped; no usable close yields zero.
func monthChange(quotes []struct {
	Close []*float64 `json:"close"`
}, latest float64) float64 {
	if len(quotes) == 0 || latest <= 0 {
		return 0
	}
	for _, close := range quotes[0].Close {
		if close != nil && *close > 0 {
			return (latest - *close) / *close * 100
		}
	}
	return 0
}

// Ensure Client implements PriceProvider
var _ interfaces.PriceProvider = (*Client)(nil)
