// Package apiclient is the HTTP transport shared by the outbound nutrition
// source clients: rate limiting, bounded retries and JSON decoding.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when the remote API answers 404
var ErrNotFound = errors.New("resource not found")

// ErrRequestFailed is returned when the remote API cannot be reached or keeps failing
var ErrRequestFailed = errors.New("upstream request failed")

const maxErrorBody = 512

// Options configures a Client
type Options struct {
	Name        string        // used in log fields
	UserAgent   string
	Timeout     time.Duration // per attempt; default 10s
	RatePerSec  float64       // 0 disables limiting
	Burst       int
	MaxAttempts int // default 3
	Logger      *zap.Logger
}

// Client executes JSON GET requests against one upstream API
type Client struct {
	name        string
	httpClient  *http.Client
	userAgent   string
	rateLimiter *rate.Limiter
	maxAttempts int
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// New creates a Client from options
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RatePerSec > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), burst)
	}

	return &Client{
		name:        opts.Name,
		httpClient:  &http.Client{Timeout: timeout},
		userAgent:   opts.UserAgent,
		rateLimiter: limiter,
		maxAttempts: attempts,
		backoff:     ExponentialBackoff,
		logger:      logger.With(zap.String("upstream", opts.Name)),
	}
}

// SetRateLimit replaces the outbound request rate. perSec <= 0 disables limiting.
func (c *Client) SetRateLimit(perSec float64, burst int) {
	if perSec <= 0 {
		c.rateLimiter.SetLimit(rate.Inf)
		return
	}
	if burst <= 0 {
		burst = 1
	}
	c.rateLimiter.SetLimit(rate.Limit(perSec))
	c.rateLimiter.SetBurst(burst)
}

// ExponentialBackoff returns the wait before retry number attempt (1-based):
// 500ms, 1s, 2s, ...
func ExponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// GetJSON fetches reqURL and decodes the JSON body into dest.
// Server errors and transport failures are retried; 4xx responses are not.
func (c *Client) GetJSON(ctx context.Context, reqURL string, dest interface{}) error {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", ErrRequestFailed, err)
		}

		body, status, err := c.do(ctx, reqURL)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("request error", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = fmt.Errorf("%w: %v", ErrRequestFailed, err)
		case status == http.StatusNotFound:
			return ErrNotFound
		case status >= 500 || status == http.StatusTooManyRequests:
			c.logger.Warn("upstream error status", zap.Int("attempt", attempt), zap.Int("status", status))
			lastErr = fmt.Errorf("%w: status %d", ErrRequestFailed, status)
		case status != http.StatusOK:
			c.logger.Warn("upstream rejected request", zap.Int("status", status), zap.ByteString("body", truncate(body)))
			return fmt.Errorf("%w: status %d", ErrRequestFailed, status)
		default:
			if err := json.Unmarshal(body, dest); err != nil {
				return fmt.Errorf("%w: decode response: %v", ErrRequestFailed, err)
			}
			return nil
		}

		if attempt < c.maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}
	}

	c.logger.Error("all retries failed", zap.Error(lastErr))
	return lastErr
}

func (c *Client) do(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func truncate(b []byte) []byte {
	if len(b) > maxErrorBody {
		return b[:maxErrorBody]
	}
	return b
}
