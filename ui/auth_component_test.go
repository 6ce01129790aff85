package ui

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/auth"
	"github.com/s0up4200/marquee/effects"
	"github.com/s0up4200/marquee/resource"
	"github.com/s0up4200/marquee/store"
	"github.com/s0up4200/marquee/tmdb"
)

type fakeSearcher struct {
	page  *tmdb.Page[tmdb.MovieResult]
	err   error
	calls int
}

func (f *fakeSearcher) SearchMovies(ctx context.Context, query string, page int) (*tmdb.Page[tmdb.MovieResult], error) {
	f.calls++
	return f.page, f.err
}

type recordingNotifier struct {
	errs []error
}

func (n *recordingNotifier) Show(err error) {
	n.errs = append(n.errs, err)
}

func newComponent(t *testing.T, movies MovieSearcher, notifier Notifier) (*AuthComponent, *store.Store) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	svc, err := auth.NewService(zerolog.Nop(), auth.WithDelay(50*time.Millisecond))
	require.NoError(t, err)

	s := store.NewStore(nil, zerolog.Nop())
	s.RunEffect(ctx, effects.NewLoginEffect(svc, zerolog.Nop()))

	return NewAuthComponent(s, movies, notifier, zerolog.Nop()), s
}

func awaitSettled(t *testing.T, c *AuthComponent) *store.AuthState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := c.Await(ctx)
	require.NoError(t, err)
	return st
}

func TestAuthComponent_LoginValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"both empty", "", ""},
		{"no password", "user", ""},
		{"no username", "", "pass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, s := newComponent(t, nil, nil)
			c.Username, c.Password = tt.username, tt.password

			err := c.Login()
			assert.ErrorIs(t, err, ErrMissingCredentials)
			assert.Same(t, store.InitialState, s.State())
		})
	}
}

func TestAuthComponent_LoginSuccess(t *testing.T) {
	c, _ := newComponent(t, nil, nil)
	c.Username, c.Password = "user", "pass"

	require.NoError(t, c.Login())
	assert.True(t, c.Loading())

	var out bytes.Buffer
	require.NoError(t, c.Render(&out))
	assert.Equal(t, "Loading...\n", out.String())

	st := awaitSettled(t, c)
	assert.False(t, st.Loading)
	require.NotNil(t, c.User())
	assert.Equal(t, &store.User{ID: "1", Name: "user"}, c.User())
	assert.Empty(t, c.Error())

	out.Reset()
	require.NoError(t, c.Render(&out))
	assert.Equal(t, "Welcome, user!\n", out.String())

	c.Logout()
	assert.Nil(t, c.User())
	out.Reset()
	require.NoError(t, c.Render(&out))
	assert.Equal(t, "Not logged in\n", out.String())
}

func TestAuthComponent_LoginFailure(t *testing.T) {
	c, _ := newComponent(t, nil, nil)
	c.Username, c.Password = "x", "y"

	require.NoError(t, c.Login())
	awaitSettled(t, c)

	assert.False(t, c.Loading())
	assert.Nil(t, c.User())
	assert.Equal(t, "Invalid credentials", c.Error())

	var out bytes.Buffer
	require.NoError(t, c.Render(&out))
	assert.Equal(t, "Error: Invalid credentials\n", out.String())
}

func TestAuthComponent_Search(t *testing.T) {
	searcher := &fakeSearcher{page: &tmdb.Page[tmdb.MovieResult]{
		Page:       1,
		Results:    []tmdb.MovieResult{{ID: 603, Title: "The Matrix"}},
		TotalPages: 3,
	}}
	notifier := &recordingNotifier{}
	c, _ := newComponent(t, searcher, notifier)
	ctx := context.Background()

	result, err := c.Search(ctx, "  matrix ", 1)
	require.NoError(t, err)
	assert.Len(t, result.Results, 1)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, "The Matrix", c.Results()[0].Title)

	// a failed search keeps previous results
	searcher.page, searcher.err = nil, &resource.APIError{Status: 500, StatusText: "Internal Server Error"}
	_, err = c.Search(ctx, "matrix", 2)
	require.Error(t, err)
	require.Len(t, notifier.errs, 1)
	assert.Equal(t, "The Matrix", c.Results()[0].Title)

	_, err = c.Search(ctx, "   ", 1)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, 2, searcher.calls)
}

func TestAuthComponent_SearchNotConfigured(t *testing.T) {
	c, _ := newComponent(t, nil, nil)
	_, err := c.Search(context.Background(), "matrix", 1)
	assert.Error(t, err)
}
