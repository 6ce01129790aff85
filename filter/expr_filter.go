package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/marquee/tmdb"
)

// Filter is a compiled movie filter expression
type Filter struct {
	program *vm.Program
	expr    string
}

// Compile type-checks and compiles a filter expression. The expression must
// evaluate to a bool.
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty filter expression",
		}
	}

	// Compile against a zero movie so field and helper types are known
	program, err := expr.Compile(expression,
		expr.Env(newEnv(tmdb.MovieResult{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, newCompilationError(expression, err)
	}

	return &Filter{
		program: program,
		expr:    expression,
	}, nil
}

// Match evaluates the filter against movie
func (f *Filter) Match(movie tmdb.MovieResult) (bool, error) {
	result, err := expr.Run(f.program, newEnv(movie))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expr,
			MovieTitle: movie.Title,
			Reason:     err.Error(),
			Err:        err,
		}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expr,
			MovieTitle: movie.Title,
			Reason:     fmt.Sprintf("expected bool result, got %T", result),
		}
	}
	return matched, nil
}

// String returns the original expression
func (f *Filter) String() string {
	return f.expr
}

// newEnv exposes a movie and the helper functions to expressions
func newEnv(movie tmdb.MovieResult) map[string]any {
	released := movie.Released()

	return map[string]any{
		// Movie data
		"Movie": movie,

		// Direct movie properties for convenience
		"ID":          movie.ID,
		"Title":       movie.Title,
		"Original":    movie.OriginalTitle,
		"Overview":    movie.Overview,
		"Language":    movie.OriginalLanguage,
		"Year":        movie.Year(),
		"Released":    released,
		"ReleaseDate": movie.ReleaseDate,
		"Genres":      movie.GenreIDs,
		"Adult":       movie.Adult,
		"Popularity":  movie.Popularity,
		"VoteAverage": movie.VoteAverage,
		"VoteCount":   movie.VoteCount,
		"HasPoster":   movie.PosterPath != "",

		// Genre helpers
		"hasGenre": func(id int) bool {
			for _, g := range movie.GenreIDs {
				if g == id {
					return true
				}
			}
			return false
		},

		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return time.Now().AddDate(0, -months, 0)
		},
		"yearsAgo": func(years int) time.Time {
			return time.Now().AddDate(-years, 0, 0)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},

		// String helpers
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,

		// Current time
		"now": time.Now,
	}
}
