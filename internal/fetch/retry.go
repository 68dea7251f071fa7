package fetch

import (
	"fmt"
	"net/http"
	"time"
)

// DefaultRetries is the default number of retries for RetryingClient.
const DefaultRetries = 3

// RetryingClient wraps an HTTPClient with retries and exponential
// backoff for transport failures and server errors. Client errors
// (4xx) are returned immediately; retrying them never helps.
//
// Only safe for requests without a body. The fetcher itself never
// retries; callers that want retry behavior hand it a RetryingClient.
type RetryingClient struct {
	inner   HTTPClient
	retries int
	// backoffUnit scales the exponential backoff (1, 2, 4... units).
	backoffUnit time.Duration
}

// NewRetryingClient wraps inner with up to retries additional attempts.
func NewRetryingClient(inner HTTPClient, retries int) *RetryingClient {
	if retries < 0 {
		retries = 0
	}
	return &RetryingClient{
		inner:       inner,
		retries:     retries,
		backoffUnit: time.Second,
	}
}

// Do issues the request, retrying on transport errors and 5xx responses.
func (c *RetryingClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(attempt-1)) * c.backoffUnit
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := c.inner.Do(req)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status %s", resp.Status)
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", c.retries, lastErr)
}
