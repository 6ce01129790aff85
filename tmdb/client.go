package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/marquee/resource"
)

// DefaultBaseURL is the TMDB v3 API root
const DefaultBaseURL = "https://api.themoviedb.org/3"

// MaxConcurrency bounds parallel detail lookups in GetMovies
const MaxConcurrency = 5

// Client is the TMDB movie API
type Client struct {
	api      *resource.Client
	cache    *cache.Cache
	language string
	logger   zerolog.Logger
}

// NewClient creates a TMDB client authenticating with a v4 read access
// token. TMDB has no single collection, so the underlying resource client
// has an empty resource path.
func NewClient(baseURL, token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	options := clientOptions{
		timeout: resource.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	resourceOpts := []resource.Option{resource.WithTracker(options.tracker)}
	if options.httpClient != nil {
		resourceOpts = append(resourceOpts, resource.WithHTTPClient(options.httpClient))
	} else {
		resourceOpts = append(resourceOpts, resource.WithTimeout(options.timeout))
	}

	api, err := resource.NewClient(
		strings.TrimRight(baseURL, "/"),
		"",
		map[string]string{"Authorization": "Bearer " + token},
		logger,
		resourceOpts...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tmdb client: %w", err)
	}

	c := &Client{
		api:      api,
		language: options.language,
		logger:   logger,
	}
	if options.cacheTTL > 0 {
		c.cache = cache.New(options.cacheTTL, 2*options.cacheTTL)
	}

	return c, nil
}

// BaseURL returns the API root in use
func (c *Client) BaseURL() string {
	return c.api.BaseURL()
}

// GetPopularMovies returns a page of the popular movies list.
// Pages start at 1.
func (c *Client) GetPopularMovies(ctx context.Context, page int) (*Page[MovieResult], error) {
	params := c.params(map[string]any{"page": normalizePage(page)})

	result, err := resource.Do[Page[MovieResult]](ctx, c.api, http.MethodGet, c.api.BuildURL("movie", "popular"), resource.RequestOptions{Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to get popular movies: %w", err)
	}

	c.logger.Debug().
		Int("page", result.Page).
		Int("count", len(result.Results)).
		Msg("Retrieved popular movies")
	return &result, nil
}

// GetMovie returns the details of one movie
func (c *Client) GetMovie(ctx context.Context, id int64) (*MovieDetails, error) {
	key := strconv.FormatInt(id, 10)
	if c.cache != nil {
		if cached, found := c.cache.Get(key); found {
			c.logger.Debug().Int64("movie_id", id).Msg("Movie details served from cache")
			return cached.(*MovieDetails), nil
		}
	}

	var details MovieDetails
	err := c.api.Request(ctx, http.MethodGet, c.api.BuildURL("movie", id), resource.RequestOptions{Params: c.params(nil)}, &details)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}

	if c.cache != nil {
		c.cache.Set(key, &details, cache.DefaultExpiration)
	}
	return &details, nil
}

// SearchMovies searches movies by title. Adult titles are always excluded.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*Page[MovieResult], error) {
	return c.SearchMoviesWithParams(ctx, query, page, nil)
}

// SearchMoviesWithParams is SearchMovies with extra TMDB search parameters
// such as "year" or "region". query, page and include_adult always win
// over entries in extra.
func (c *Client) SearchMoviesWithParams(ctx context.Context, query string, page int, extra map[string]any) (*Page[MovieResult], error) {
	params := c.params(extra)
	params["query"] = query
	params["page"] = normalizePage(page)
	params["include_adult"] = false

	result, err := resource.Do[Page[MovieResult]](ctx, c.api, http.MethodGet, c.api.BuildURL("search", "movie"), resource.RequestOptions{Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to search movies for %q: %w", query, err)
	}

	c.logger.Debug().
		Str("query", query).
		Int("page", result.Page).
		Int("total", result.TotalResults).
		Msg("Searched movies")
	return &result, nil
}

// GetMovies fetches the details of several movies concurrently. Results
// keep the order of ids; the first failure cancels the remaining lookups.
func (c *Client) GetMovies(ctx context.Context, ids []int64) ([]*MovieDetails, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	movies := make([]*MovieDetails, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrency)

	// Use mutex to protect concurrent writes
	var mu sync.Mutex

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			details, err := c.GetMovie(ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			movies[i] = details
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return movies, nil
}

// FlushCache drops all cached movie details
func (c *Client) FlushCache() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

// params copies extra and adds the configured language
func (c *Client) params(extra map[string]any) map[string]any {
	params := make(map[string]any, len(extra)+4)
	for k, v := range extra {
		params[k] = v
	}
	if c.language != "" {
		if _, ok := params["language"]; !ok {
			params["language"] = c.language
		}
	}
	return params
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
