// Package httputil provides retrying HTTP fetches for remote ring
// directories.
//
// Transient failures (network errors, timeouts, 5xx responses) are
// wrapped with [RetryableError] so [Retry] attempts them again with
// exponential backoff; 429 responses honor the Retry-After header; other
// client errors return immediately. Request and response events are
// reported through the observability HTTP hooks.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/webring/pkg/errors"
	"github.com/matzehuels/webring/pkg/observability"
)

// maxBodySize bounds directory downloads; a ring directory measured in
// megabytes is malformed input, not data.
const maxBodySize = 4 << 20

// Fetch performs a GET with retries and returns the response body.
// Responses with 5xx status codes, 429s, and transport errors are
// retried; other 4xx responses fail immediately.
func Fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %s: %w", rawURL, err)
	}

	var body []byte
	err = RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}

		observability.HTTP().OnRequest(ctx, http.MethodGet, u.Host, u.Path)
		start := time.Now()

		resp, err := client.Do(req)
		if err != nil {
			observability.HTTP().OnError(ctx, http.MethodGet, u.Host, u.Path, err)
			return &RetryableError{Err: classifyTransport(err, rawURL)}
		}
		defer resp.Body.Close()
		observability.HTTP().OnResponse(ctx, http.MethodGet, u.Host, u.Path, resp.StatusCode, time.Since(start))

		if resp.StatusCode == http.StatusTooManyRequests {
			after, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
			return &RetryableError{
				Err:        errors.Wrap(errors.ErrCodeRateLimited, &errors.RateLimitedError{RetryAfter: after}, "GET %s", rawURL),
				RetryAfter: time.Duration(after) * time.Second,
			}
		}
		if resp.StatusCode >= 500 {
			return &RetryableError{Err: fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)}
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// classifyTransport marks client timeouts with a code so callers can
// distinguish a slow directory host from an unreachable one.
func classifyTransport(err error, rawURL string) error {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return errors.Wrap(errors.ErrCodeTimeout, err, "GET %s timed out", rawURL)
	}
	return err
}
