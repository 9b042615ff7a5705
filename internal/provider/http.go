// Package provider implements typed HTTP clients for the two external data
// providers: daily price history and news coverage. Both clients share one
// retry policy and surface failures as *APIError values.
package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	// requestTimeout bounds each individual HTTP attempt.
	requestTimeout = 10 * time.Second

	// retryMax is the number of retries after the initial attempt.
	retryMax = 3

	// defaultRetryWaitBase is the first backoff delay; subsequent delays
	// double it (2s, 4s, 8s).
	defaultRetryWaitBase = 2 * time.Second
)

// newRetryClient builds the shared retry policy used by both provider
// clients: up to retryMax retries with exponential backoff, retrying only
// transport errors, HTTP 429, and 5xx. All other 4xx fail immediately.
// waitBase is injectable so tests do not sleep for real.
func newRetryClient(waitBase time.Duration) *http.Client {
	if waitBase <= 0 {
		waitBase = defaultRetryWaitBase
	}

	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = retryMax
	rc.HTTPClient.Timeout = requestTimeout
	rc.CheckRetry = checkRetry
	rc.Backoff = func(_, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
		return waitBase << attemptNum
	}
	// Hand the final response back after exhausted retries instead of a
	// synthetic "giving up" error, so callers can map the status code.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc.StandardClient()
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		// Network unreachable, timeout, connection reset.
		return true, nil
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return true, nil
	}
	return false, nil
}
