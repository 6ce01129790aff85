package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

// RequestIDHeader is attached to every request that does not carry one
const RequestIDHeader = "X-Request-ID"

// RequestOptions are the per-call parts of a request
type RequestOptions struct {
	// Params are encoded into the query string. Values are converted to
	// their string form; nil values are skipped.
	Params map[string]any
	// Headers override the client's default headers on key collision
	Headers map[string]string
	// Body is encoded as JSON when not nil
	Body any
}

// Client issues requests against baseURL/resourcePath
type Client struct {
	baseURL      string
	resourcePath string
	headers      map[string]string
	httpClient   *http.Client
	timeout      *time.Duration
	tracker      *Tracker
	logger       zerolog.Logger
}

// NewClient creates a client. resourcePath may be empty for APIs without a
// single collection.
func NewClient(baseURL, resourcePath string, headers map[string]string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", ErrInvalidConfig, baseURL)
	}

	defaults := make(map[string]string, len(headers))
	for k, v := range headers {
		defaults[k] = v
	}

	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		resourcePath: strings.Trim(resourcePath, "/"),
		headers:      defaults,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		hc := *c.httpClient
		hc.Timeout = *c.timeout
		c.httpClient = &hc
	}

	return c, nil
}

// BaseURL returns the base URL without trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResourcePath returns the default resource path
func (c *Client) ResourcePath() string {
	return c.resourcePath
}

// BuildURL joins the base URL, the resource path and segments with single
// slashes. Leading and trailing slashes on any piece are ignored.
func (c *Client) BuildURL(segments ...any) string {
	parts := make([]string, 0, len(segments)+2)
	parts = append(parts, c.baseURL)
	if c.resourcePath != "" {
		parts = append(parts, c.resourcePath)
	}
	for _, seg := range segments {
		s := strings.Trim(fmt.Sprint(seg), "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Request performs one HTTP call and decodes a JSON response into out.
// out may be nil when the body is not needed.
func (c *Client) Request(ctx context.Context, method, rawURL string, opts RequestOptions, out any) error {
	reqURL, err := withParams(rawURL, opts.Params)
	if err != nil {
		return err
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	log := c.logger.With().
		Str("method", method).
		Str("url", reqURL).
		Str("request_id", req.Header.Get(RequestIDHeader)).
		Logger()

	c.tracker.start()
	defer c.tracker.done()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("Request failed")
		return &APIError{
			StatusText: transportStatusText,
			Method:     method,
			URL:        reqURL,
			Err:        err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{
			StatusText: transportStatusText,
			Method:     method,
			URL:        reqURL,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
			Method:     method,
			URL:        reqURL,
			Body:       string(respBody),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", reqURL, err)
	}
	return nil
}

// List fetches the resource collection
func (c *Client) List(ctx context.Context, opts RequestOptions, out any) error {
	return c.Request(ctx, http.MethodGet, c.BuildURL(), opts, out)
}

// GetByID fetches one item of the collection
func (c *Client) GetByID(ctx context.Context, id any, opts RequestOptions, out any) error {
	return c.Request(ctx, http.MethodGet, c.BuildURL(id), opts, out)
}

// Create posts body to the collection
func (c *Client) Create(ctx context.Context, body any, opts RequestOptions, out any) error {
	opts.Body = body
	return c.Request(ctx, http.MethodPost, c.BuildURL(), opts, out)
}

// Update replaces the item id with body
func (c *Client) Update(ctx context.Context, id, body any, opts RequestOptions, out any) error {
	opts.Body = body
	return c.Request(ctx, http.MethodPut, c.BuildURL(id), opts, out)
}

// Delete removes the item id
func (c *Client) Delete(ctx context.Context, id any, opts RequestOptions, out any) error {
	return c.Request(ctx, http.MethodDelete, c.BuildURL(id), opts, out)
}

// Do performs a request and returns the decoded response as T
func Do[T any](ctx context.Context, c *Client, method, rawURL string, opts RequestOptions) (T, error) {
	var out T
	if err := c.Request(ctx, method, rawURL, opts, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// withParams merges params into the query string of rawURL
func withParams(rawURL string, params map[string]any) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid request URL %q: %w", rawURL, err)
	}

	query := u.Query()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := params[k].(type) {
		case nil:
			continue
		case []string:
			query.Del(k)
			for _, item := range v {
				query.Add(k, item)
			}
		default:
			s, err := cast.ToStringE(v)
			if err != nil {
				return "", fmt.Errorf("query parameter %q: %w", k, err)
			}
			query.Set(k, s)
		}
	}

	u.RawQuery = query.Encode()
	return u.String(), nil
}

// statusText returns the reason phrase of resp, e.g. "Not Found"
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
