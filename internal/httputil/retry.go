package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RetryConfig bounds the retry loop in Do.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 1 * time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 10 * time.Second
	}
	return c
}

// Do executes an HTTP request with exponential backoff. Only transport
// failures and 5xx responses are retried; 4xx responses (auth, rate limits)
// are returned to the caller untouched so they can be classified. buildReq
// runs once per attempt because request bodies are consumed on send.
func Do(ctx context.Context, client *http.Client, cfg RetryConfig, buildReq func() (*http.Request, error)) (*http.Response, error) {
	cfg = cfg.withDefaults()

	var lastErr error
	delay := cfg.BaseDelay

	for attempt := 1; ; attempt++ {
		req, err := buildReq()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := client.Do(req)
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode >= http.StatusInternalServerError:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
		default:
			return resp, nil
		}

		if attempt >= cfg.MaxAttempts {
			return nil, fmt.Errorf("all %d attempts failed, last error: %w", cfg.MaxAttempts, lastErr)
		}

		fmt.Printf("[HTTP] Attempt %d/%d failed: %v, retrying in %s\n", attempt, cfg.MaxAttempts, lastErr, delay)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		if delay *= 2; delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
}
