package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/matzehuels/webring/pkg/errors"
)

var errBoom = errors.New("boom")

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return &RetryableError{Err: errBoom}
		}
		return nil
	})
	if err != nil {
		t.Errorf("Retry() = %v, want nil", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("Retry() = %v, want %v", err, errBoom)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry of permanent errors)", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return &RetryableError{Err: errBoom}
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("Retry() = %v, want %v", err, errBoom)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return &RetryableError{Err: errBoom}
	})
	if err != context.Canceled {
		t.Errorf("RetryWithBackoff() = %v, want context.Canceled", err)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("directory payload"))
	}))
	defer srv.Close()

	data, err := Fetch(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "directory payload" {
		t.Errorf("body = %q", data)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("hits = %d, want 2", got)
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL)
	if err == nil {
		t.Fatal("Fetch() = nil error, want 404 failure")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v, want mention of status 404", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("hits = %d, want 1 (no retry of 4xx)", got)
	}
}

func TestRetryHonorsRetryAfterHint(t *testing.T) {
	start := time.Now()
	calls := 0
	err := Retry(context.Background(), 2, 250*time.Millisecond, func() error {
		calls++
		return &RetryableError{Err: errBoom, RetryAfter: time.Millisecond}
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("Retry() = %v, want %v", err, errBoom)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("waited %v, want the Retry-After hint to replace the backoff delay", elapsed)
	}
}

func TestFetchRetriesRateLimited(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("directory payload"))
	}))
	defer srv.Close()

	data, err := Fetch(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "directory payload" {
		t.Errorf("body = %q", data)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("hits = %d, want 2", got)
	}
}

func TestFetchRateLimitedCarriesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL)
	if err == nil {
		t.Fatal("Fetch() = nil error, want rate limit failure")
	}
	if got := apperrors.GetCode(err); got != apperrors.ErrCodeRateLimited {
		t.Errorf("GetCode() = %q, want %q", got, apperrors.ErrCodeRateLimited)
	}
	var rl *apperrors.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("error chain %v is missing the rate limit detail", err)
	}
	if rl.RetryAfter != 0 {
		t.Errorf("RetryAfter = %d, want 0", rl.RetryAfter)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial timed out" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyTransport(t *testing.T) {
	err := classifyTransport(timeoutErr{}, "https://ring.example/ring.toml")
	if got := apperrors.GetCode(err); got != apperrors.ErrCodeTimeout {
		t.Errorf("GetCode() = %q, want %q", got, apperrors.ErrCodeTimeout)
	}

	err = classifyTransport(errBoom, "https://ring.example/ring.toml")
	if !errors.Is(err, errBoom) {
		t.Errorf("classifyTransport() = %v, want %v passed through", err, errBoom)
	}
	if got := apperrors.GetCode(err); got != "" {
		t.Errorf("GetCode() = %q, want no code on plain transport errors", got)
	}
}
