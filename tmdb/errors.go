package tmdb

import "errors"

// ErrMissingToken indicates no API read access token was configured
var ErrMissingToken = errors.New("tmdb API token is required")
