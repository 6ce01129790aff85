package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/config"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/tmdb"
	"github.com/s0up4200/marquee/ui"
)

var (
	// Command flags
	filterExpr   string
	preset       string
	page         int
	showOverview bool

	filterCache = filter.NewCache(filter.DefaultCacheSize)
	formatter   = ui.NewConsoleFormatter()
)

// popularCmd represents the popular command
var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List popular movies",
	Args:  cobra.NoArgs,
	RunE:  runPopular,
}

// movieCmd represents the movie command
var movieCmd = &cobra.Command{
	Use:   "movie <id>...",
	Short: "Show details for one or more movies",
	Long:  `Show TMDB details for the given movie ids. Several ids are fetched concurrently.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMovie,
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search movies by title",
	Long: `Search TMDB movies by title. Results can be narrowed with a filter
expression or a preset from the config, for example:

  marquee search alien --filter 'VoteAverage >= 7 && Year < 1990'`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	popularCmd.Flags().IntVar(&page, "page", 1, "result page")
	popularCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	popularCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	popularCmd.Flags().BoolVar(&showOverview, "overview", false, "print each movie's overview")

	searchCmd.Flags().IntVar(&page, "page", 1, "result page")
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	searchCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	searchCmd.Flags().BoolVar(&showOverview, "overview", false, "print each movie's overview")

	rootCmd.AddCommand(popularCmd)
	rootCmd.AddCommand(movieCmd)
	rootCmd.AddCommand(searchCmd)
}

func runPopular(cmd *cobra.Command, args []string) error {
	client, err := app.movieClient()
	if err != nil {
		return err
	}

	result, err := client.GetPopularMovies(cmd.Context(), page)
	if err != nil {
		return err
	}

	movies, err := applyFilter(cfg.Filter, result.Results)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMovieList(movies, ui.FormatOptions{
		ShowOverview: showOverview,
		Page:         result.Page,
		TotalPages:   result.TotalPages,
	}))
	return nil
}

func runMovie(cmd *cobra.Command, args []string) error {
	client, err := app.movieClient()
	if err != nil {
		return err
	}

	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	movies, err := client.GetMovies(cmd.Context(), ids)
	if err != nil {
		return err
	}

	for _, movie := range movies {
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMovieDetails(movie))
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	if _, err := app.movieClient(); err != nil {
		return err
	}

	result, err := app.component.Search(cmd.Context(), args[0], page)
	if err != nil {
		return err
	}

	movies, err := applyFilter(cfg.Filter, result.Results)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMovieList(movies, ui.FormatOptions{
		ShowOverview: showOverview,
		Page:         result.Page,
		TotalPages:   result.TotalPages,
	}))
	return nil
}

// applyFilter narrows movies by the selected filter expression, if any
func applyFilter(fc config.FilterConfig, movies []tmdb.MovieResult) ([]tmdb.MovieResult, error) {
	expr, err := getFilterExpression(fc)
	if err != nil {
		return nil, err
	}
	if expr == "" {
		return movies, nil
	}

	logger.Debug().Str("filter", expr).Int("movies", len(movies)).Msg("Filtering movies")

	filtered, err := filter.ApplyExpression(filterCache, expr, movies, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return filtered, nil
}

// getFilterExpression determines the filter expression to use.
// An empty result means no filtering.
func getFilterExpression(fc config.FilterConfig) (string, error) {
	// Priority: command line filter > preset > default
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if presetFilter, ok := fc.Presets[preset]; ok {
			return presetFilter.Expression, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return fc.DefaultExpression, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid movie id '%s': must be a positive integer", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
