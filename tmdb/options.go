package tmdb

import (
	"net/http"
	"time"

	"github.com/s0up4200/marquee/resource"
)

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
	cacheTTL   time.Duration
	language   string
	tracker    *resource.Tracker
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithCacheTTL caches movie details for ttl. Zero disables the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *clientOptions) {
		if ttl >= 0 {
			o.cacheTTL = ttl
		}
	}
}

// WithLanguage asks TMDB for localized results, e.g. "en-US"
func WithLanguage(language string) Option {
	return func(o *clientOptions) {
		o.language = language
	}
}

// WithTracker counts the client's requests in t
func WithTracker(t *resource.Tracker) Option {
	return func(o *clientOptions) {
		o.tracker = t
	}
}
