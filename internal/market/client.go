// Package market provides REST adapters for pair data, recent trades, the native price oracle and holder concentration.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"solana-pool-sentinel/internal/observability"
)

var (
	// ErrUnavailable is returned when a provider answered but the requested value is absent.
	ErrUnavailable = errors.New("market data unavailable")
	// ErrNoPairs is returned when a token has no trading pairs.
	ErrNoPairs = errors.New("no pairs for token")
)

// ClientConfig configures the shared REST transport.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
	Headers    map[string]string
}

func newRestClient(cfg ClientConfig) *resty.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 500 * time.Millisecond
	}

	c := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(10 * cfg.RetryWait).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil || resp == nil {
				return true
			}
			code := resp.StatusCode()
			return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
		})

	for k, v := range cfg.Headers {
		c.SetHeader(k, v)
	}
	return c
}

// getJSON performs GET path and decodes a 2xx body into out.
func getJSON(ctx context.Context, c *resty.Client, provider, path string, query map[string]string, out interface{}) error {
	resp, err := c.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		observability.RecordHTTPError(provider)
		return fmt.Errorf("%s request: %w", provider, err)
	}
	if resp.IsError() {
		observability.RecordHTTPError(provider)
		return fmt.Errorf("%s: unexpected status %d: %s", provider, resp.StatusCode(), truncate(resp.String(), 200))
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		observability.RecordHTTPError(provider)
		return fmt.Errorf("%s: decode response: %w", provider, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
