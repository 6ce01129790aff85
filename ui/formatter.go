package ui

import (
	"fmt"
	"strings"

	"github.com/s0up4200/marquee/tmdb"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowOverview bool
	// Page and TotalPages are printed in the header when TotalPages > 0
	Page       int
	TotalPages int
}

// ConsoleFormatter provides console output formatting for movies
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatMovieList formats a list of movies for console display
func (f *ConsoleFormatter) FormatMovieList(movies []tmdb.MovieResult, options FormatOptions) string {
	if len(movies) == 0 {
		return "No movies found\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\nMovie")
	if len(movies) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d)", len(movies))
	if options.TotalPages > 0 {
		fmt.Fprintf(&sb, " - page %d of %d", options.Page, options.TotalPages)
	}
	sb.WriteString(":\n\n")

	// Format each movie
	for i, movie := range movies {
		isLast := i == len(movies)-1
		f.formatMovie(&sb, movie, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatMovie(sb *strings.Builder, movie tmdb.MovieResult, isLast bool, options FormatOptions) {
	prefix := "├"
	indent := "│   "
	if isLast {
		prefix = "╰"
		indent = "    "
	}

	fmt.Fprintf(sb, "%s── %s", prefix, movie.Title)
	if year := movie.Year(); year > 0 {
		fmt.Fprintf(sb, " (%d)", year)
	}
	fmt.Fprintf(sb, " [%d]\n", movie.ID)

	if movie.VoteCount > 0 {
		fmt.Fprintf(sb, "%sRating: %.1f (%d votes)\n", indent, movie.VoteAverage, movie.VoteCount)
	}
	if movie.OriginalTitle != "" && movie.OriginalTitle != movie.Title {
		fmt.Fprintf(sb, "%sOriginal: %s\n", indent, movie.OriginalTitle)
	}
	if options.ShowOverview && movie.Overview != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, movie.Overview)
	}
}

// FormatMovieDetails formats a single movie
func (f *ConsoleFormatter) FormatMovieDetails(movie *tmdb.MovieDetails) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(movie.Title)
	if year := movie.Year(); year > 0 {
		fmt.Fprintf(&sb, " (%d)", year)
	}
	sb.WriteString("\n")
	if movie.Tagline != "" {
		fmt.Fprintf(&sb, "│   %s\n", movie.Tagline)
	}

	rows := [][2]string{
		{"ID", fmt.Sprint(movie.ID)},
		{"IMDb", movie.IMDbID},
		{"Status", movie.Status},
		{"Released", movie.ReleaseDate},
		{"Genres", strings.Join(movie.GenreNames(), ", ")},
	}
	if movie.Runtime > 0 {
		rows = append(rows, [2]string{"Runtime", fmt.Sprintf("%dh %02dm", movie.Runtime/60, movie.Runtime%60)})
	}
	if movie.VoteCount > 0 {
		rows = append(rows, [2]string{"Rating", fmt.Sprintf("%.1f (%d votes)", movie.VoteAverage, movie.VoteCount)})
	}
	if movie.BelongsToCollection != nil {
		rows = append(rows, [2]string{"Collection", movie.BelongsToCollection.Name})
	}

	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(&sb, "├── %-10s %s\n", row[0]+":", row[1])
	}
	if movie.Overview != "" {
		fmt.Fprintf(&sb, "╰── %s\n", movie.Overview)
	}

	return sb.String()
}
