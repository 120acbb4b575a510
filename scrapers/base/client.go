package base

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client wraps resty with browser-like headers and the shared retry
// policy. Retailer API scrapers decode listing/detail responses into
// their own typed structs through GetJSON/PostJSON.
type Client struct {
	http  *resty.Client
	retry RetryPolicy
	log   *zap.SugaredLogger
}

// NewClient creates a JSON API client. Headers mimic a regular browsing
// session since most retailer endpoints reject obvious bots.
func NewClient(log *zap.SugaredLogger) *Client {
	rc := resty.New().
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", browserUserAgent).
		SetHeader("Accept", "application/json, text/plain, */*").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Client{
		http:  rc,
		retry: DefaultRetryPolicy(),
		log:   log,
	}
}

// WithRetry overrides the default retry policy.
func (c *Client) WithRetry(rp RetryPolicy) *Client {
	c.retry = rp
	return c
}

// WithHeader sets a persistent header, e.g. a retailer API key or cookie.
func (c *Client) WithHeader(key, value string) *Client {
	c.http.SetHeader(key, value)
	return c
}

// GetJSON fetches url with optional query params and decodes the JSON
// response into out, retrying per the shared policy.
func (c *Client) GetJSON(ctx context.Context, url string, query map[string]string, out interface{}) error {
	return c.do(ctx, url, out, func() (*resty.Response, error) {
		req := c.http.R().SetContext(ctx)
		if len(query) > 0 {
			req.SetQueryParams(query)
		}
		return req.Get(url)
	})
}

// PostJSON posts a JSON body (typically a GraphQL query) and decodes the
// response into out.
func (c *Client) PostJSON(ctx context.Context, url string, body interface{}, out interface{}) error {
	return c.do(ctx, url, out, func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post(url)
	})
}

func (c *Client) do(ctx context.Context, url string, out interface{}, send func() (*resty.Response, error)) error {
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if delay := c.retry.Delay(attempt); delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := send()
		if err != nil {
			lastErr = err
			c.log.Debugw("request failed", "url", url, "attempt", attempt, "error", err)
			continue
		}
		if resp.IsError() {
			lastErr = fmt.Errorf("status code error: %d %s", resp.StatusCode(), resp.Status())
			// Client errors won't heal on retry; only retry server-side failures
			if resp.StatusCode() < 500 {
				return lastErr
			}
			c.log.Debugw("server error", "url", url, "attempt", attempt, "status", resp.StatusCode())
			continue
		}

		if out == nil {
			return nil
		}
		// Decode from raw bytes: several retailers serve JSON with a
		// text/html content type, which trips resty's auto-unmarshal.
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", url, err)
		}
		return nil
	}

	return fmt.Errorf("request to %s failed after %d attempts: %w", url, c.retry.MaxAttempts, lastErr)
}
