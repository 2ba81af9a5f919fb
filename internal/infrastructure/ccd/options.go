package ccd

import (
	"net/http"
	"time"

	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTokenSource sets where request credentials come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		if ts != nil {
			c.tokens = ts
		}
	}
}

// WithObserver reports every store call to o.
func WithObserver(o CallObserver) Option {
	return func(c *Client) { c.observer = o }
}

// WithRetryMax sets the number of retries after the first attempt.
func WithRetryMax(retryMax int) Option {
	return func(c *Client) {
		if retryMax >= 0 {
			c.retryMax = retryMax
		}
	}
}

// WithRetryWait sets the backoff bounds. max is applied only when it is not
// below min.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		if min > 0 {
			c.retryWaitMin = min
			if max >= min {
				c.retryWaitMax = max
			}
		}
	}
}
