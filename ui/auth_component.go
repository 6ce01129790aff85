// Package ui holds the presentation logic of marquee's terminal front end:
// the login form bound to the auth store and the movie search box.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/store"
	"github.com/s0up4200/marquee/tmdb"
)

// Validation errors
var (
	// ErrMissingCredentials is returned when username or password is empty
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrEmptyQuery is returned when searching without search terms
	ErrEmptyQuery = errors.New("search query is required")
)

// MovieSearcher is the part of the movie API the component needs
type MovieSearcher interface {
	SearchMovies(ctx context.Context, query string, page int) (*tmdb.Page[tmdb.MovieResult], error)
}

// AuthComponent is the login form. Username and Password are bound to the
// form fields; everything else is derived from the store.
type AuthComponent struct {
	Username string
	Password string

	store    *store.Store
	movies   MovieSearcher
	notifier Notifier
	logger   zerolog.Logger

	mu      sync.RWMutex
	results []tmdb.MovieResult
}

// NewAuthComponent creates the component. movies may be nil when search is
// not available.
func NewAuthComponent(s *store.Store, movies MovieSearcher, notifier Notifier, logger zerolog.Logger) *AuthComponent {
	if notifier == nil {
		notifier = NewErrorNotifier(logger)
	}
	return &AuthComponent{
		store:    s,
		movies:   movies,
		notifier: notifier,
		logger:   logger,
	}
}

// Login dispatches a login intent for the bound credentials. Empty fields
// are rejected before anything is dispatched.
func (c *AuthComponent) Login() error {
	if c.Username == "" || c.Password == "" {
		return ErrMissingCredentials
	}

	c.store.Dispatch(store.LoginIntent{
		Username: c.Username,
		Password: c.Password,
	})
	return nil
}

// Await blocks until no login is in flight and returns the settled state
func (c *AuthComponent) Await(ctx context.Context) (*store.AuthState, error) {
	return c.store.WaitFor(ctx, func(st *store.AuthState) bool {
		return !st.Loading
	})
}

// Logout dispatches a logout
func (c *AuthComponent) Logout() {
	c.store.Dispatch(store.Logout{})
}

// Loading reports whether a login is in flight
func (c *AuthComponent) Loading() bool {
	return store.SelectLoading(c.store.State())
}

// User returns the logged in user, or nil
func (c *AuthComponent) User() *store.User {
	return store.SelectUser(c.store.State())
}

// Error returns the last login error, or an empty string
func (c *AuthComponent) Error() string {
	if msg := store.SelectError(c.store.State()); msg != nil {
		return *msg
	}
	return ""
}

// Render writes the login status: a loading line, a greeting and the
// error, each only when present.
func (c *AuthComponent) Render(w io.Writer) error {
	st := c.store.State()

	var b strings.Builder
	if store.SelectLoading(st) {
		b.WriteString("Loading...\n")
	}
	if user := store.SelectUser(st); user != nil {
		fmt.Fprintf(&b, "Welcome, %s!\n", user.Name)
	}
	if msg := store.SelectError(st); msg != nil {
		fmt.Fprintf(&b, "Error: %s\n", *msg)
	}
	if b.Len() == 0 {
		b.WriteString("Not logged in\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Search runs a movie search and keeps the results. On failure the error
// is reported and the previous results stay in place.
func (c *AuthComponent) Search(ctx context.Context, query string, page int) (*tmdb.Page[tmdb.MovieResult], error) {
	if c.movies == nil {
		return nil, errors.New("movie search is not configured")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	result, err := c.movies.SearchMovies(ctx, query, page)
	if err != nil {
		c.notifier.Show(err)
		return nil, err
	}

	c.mu.Lock()
	c.results = result.Results
	c.mu.Unlock()

	c.logger.Debug().
		Str("query", query).
		Int("page", result.Page).
		Int("count", len(result.Results)).
		Msg("Search results updated")
	return result, nil
}

// Results returns the results of the last successful search
func (c *AuthComponent) Results() []tmdb.MovieResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.results
}
