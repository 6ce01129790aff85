// Package filter narrows movie listings with expr-lang expressions such as
//
//	VoteAverage >= 7.5 && Year > 2000 && !hasGenre(27)
//
// Expressions see the movie as Movie plus its common fields at top level,
// and a small set of date and string helpers.
package filter

import (
	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/tmdb"
)

// Apply returns the movies matching f, in their original order. Movies the
// expression fails on are skipped and logged.
func Apply(f *Filter, movies []tmdb.MovieResult, logger zerolog.Logger) []tmdb.MovieResult {
	if f == nil {
		return movies
	}

	matched := make([]tmdb.MovieResult, 0, len(movies))
	for _, movie := range movies {
		ok, err := f.Match(movie)
		if err != nil {
			logger.Warn().Err(err).Str("movie", movie.Title).Msg("Filter evaluation failed, skipping movie")
			continue
		}
		if ok {
			matched = append(matched, movie)
		}
	}
	return matched
}

// ApplyExpression compiles expression through cache and applies it
func ApplyExpression(cache *Cache, expression string, movies []tmdb.MovieResult, logger zerolog.Logger) ([]tmdb.MovieResult, error) {
	f, err := cache.Get(expression)
	if err != nil {
		return nil, err
	}
	return Apply(f, movies, logger), nil
}
