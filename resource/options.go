package resource

import (
	"net/http"
	"time"
)

// DefaultTimeout is used when no http.Client is supplied
const DefaultTimeout = 30 * time.Second

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the HTTP client timeout. Zero means no timeout. A client
// passed with WithHTTPClient is copied, not modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = &timeout
	}
}

// WithTracker counts the client's requests in t
func WithTracker(t *Tracker) Option {
	return func(c *Client) {
		c.tracker = t
	}
}
