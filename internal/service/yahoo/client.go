package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"TiltBoard/internal/domain/models"
	drepo "TiltBoard/internal/domain/repository"
	"TiltBoard/internal/service/ratelimit"
	xhttp "TiltBoard/pkg/http"
)

// ErrNoData means the provider answered but had no usable closes for the symbol.
var ErrNoData = errors.New("yahoo: no chart data")

// chartResponse mirrors the v8 chart API envelope.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
			} `json:"meta"`
			Timestamps []int64 `json:"timestamp"`
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

// Client implements a PriceSource backed by the Yahoo Finance v8 chart API.
type Client struct {
	baseURL    string
	userAgent  string
	chartRange string
	interval   string
	maxRetries int
	retryDelay time.Duration

	limiter    *ratelimit.Limiter
	ratePerSec float64
	rateBurst  float64

	http    *xhttp.Client
	metrics drepo.Metrics
}

// Option configures Client.
type Option func(*Client)

// WithRange sets the chart range (e.g., "2y").
func WithRange(r string) Option {
	return func(c *Client) { c.chartRange = r }
}

// WithInterval sets the chart interval (e.g., "1d").
func WithInterval(i string) Option {
	return func(c *Client) { c.interval = i }
}

// WithUserAgent sets the outbound User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRetries sets the retry budget and delay between attempts.
func WithRetries(max int, delay time.Duration) Option {
	return func(c *Client) {
		if max > 0 {
			c.maxRetries = max
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// WithRateLimit caps outbound requests via a token bucket.
func WithRateLimit(perSec, burst float64) Option {
	return func(c *Client) {
		c.ratePerSec = perSec
		c.rateBurst = burst
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = xhttp.NewClient(xhttp.WithTimeout(d)) }
}

// New creates a Yahoo chart client.
func New(baseURL string, metrics drepo.Metrics, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		userAgent:  "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
		chartRange: "2y",
		interval:   "1d",
		maxRetries: 3,
		retryDelay: 500 * time.Millisecond,
		limiter:    ratelimit.New(),
		http:       xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ drepo.PriceSource = (*Client)(nil)

// DailyCloses fetches the daily close series for one symbol. Missing closes
// stay NaN so gap positions survive for the median computation.
func (c *Client) DailyCloses(ctx context.Context, symbol string) (*models.Series, error) {
	if err := c.waitForToken(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.baseURL, url.PathEscape(symbol), c.chartRange, c.interval)

	body, err := c.get(ctx, u)
	if err != nil {
		c.metrics.RecordFetch(symbol, "error")
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.metrics.RecordFetch(symbol, "error")
		return nil, fmt.Errorf("chart %s: decode: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		c.metrics.RecordFetch(symbol, "error")
		return nil, fmt.Errorf("chart %s: %s: %s: %w",
			symbol, resp.Chart.Error.Code, resp.Chart.Error.Description, ErrNoData)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		c.metrics.RecordFetch(symbol, "empty")
		return nil, fmt.Errorf("chart %s: %w", symbol, ErrNoData)
	}

	result := resp.Chart.Result[0]
	raw := result.Indicators.Quote[0].Close
	closes := make([]float64, len(raw))
	valid := 0
	for i, v := range raw {
		if v == nil {
			closes[i] = math.NaN()
			continue
		}
		closes[i] = *v
		valid++
	}
	if valid == 0 {
		c.metrics.RecordFetch(symbol, "empty")
		return nil, fmt.Errorf("chart %s: all closes missing: %w", symbol, ErrNoData)
	}

	c.metrics.RecordFetch(symbol, "ok")
	return &models.Series{
		Symbol:     symbol,
		Timestamps: result.Timestamps,
		Closes:     closes,
	}, nil
}

// get performs the GET with bounded retries; 429 and transport errors retry
// with linear backoff, other non-200 statuses fail fast.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		start := time.Now()
		resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
			Method:  xhttp.MethodGet,
			URL:     rawURL,
			Headers: map[string]string{"User-Agent": c.userAgent},
		})
		c.metrics.RecordLatency("provider_get", time.Since(start).Seconds())
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			c.metrics.RecordError("provider_429")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("max retries: %w", lastErr)
}

// waitForToken blocks until the token bucket allows a request or ctx ends.
func (c *Client) waitForToken(ctx context.Context) error {
	if c.ratePerSec <= 0 {
		return nil
	}
	for {
		if c.limiter.Allow("provider", c.rateBurst, c.ratePerSec) {
			return nil
		}
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
