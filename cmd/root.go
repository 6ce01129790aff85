package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/auth"
	"github.com/s0up4200/marquee/config"
	"github.com/s0up4200/marquee/effects"
	"github.com/s0up4200/marquee/resource"
	"github.com/s0up4200/marquee/store"
	"github.com/s0up4200/marquee/tmdb"
	"github.com/s0up4200/marquee/ui"
)

var (
	cfgFile    string
	logLevel   string
	cfg        *config.Config
	logger     zerolog.Logger
	app        *application
	stdinIsTTY = func() bool { return isatty.IsTerminal(os.Stdin.Fd()) }
)

// application holds everything the commands share. It is built once per
// invocation by initializeApp and torn down by shutdownApp.
type application struct {
	store     *store.Store
	component *ui.AuthComponent
	movies    *tmdb.Client
	moviesErr error
	tracker   *resource.Tracker

	cancel      context.CancelFunc
	effectDone  <-chan struct{}
	stopPersist func()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Search TMDB movies from the terminal",
	Long: `marquee is a CLI movie browser backed by The Movie Database (TMDB).
It keeps a small authentication session between runs and lets you list
popular movies, look up details and search with optional filter expressions.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		// post-run hooks are skipped on error
		_ = shutdownApp(rootCmd, nil)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

// initializeApp loads the configuration and wires the store, the login
// effect and the movie client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		if !config.ValidLogLevel(logLevel) {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", logLevel)
		}
		cfg.Logging.Level = logLevel
	}
	logger = setupLogger(cfg.Logging)

	app, err = newApplication(cfg, logger)
	if err != nil {
		return err
	}
	return nil
}

func newApplication(cfg *config.Config, logger zerolog.Logger) (*application, error) {
	authService, err := auth.NewService(logger,
		auth.WithDelay(cfg.Auth.Delay),
		auth.WithUsers(cfg.Auth.Users),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	initial := store.InitialState
	var persister *store.FilePersister
	if cfg.State.Persist {
		persister = store.NewFilePersister(cfg.State.Path)
		initial, err = persister.Load()
		if err != nil {
			logger.Warn().Err(err).Str("path", persister.Path()).Msg("Ignoring unreadable auth state")
			initial = store.InitialState
		}
	}

	a := &application{
		store:   store.NewStore(initial, logger),
		tracker: resource.NewTracker(),
	}
	if persister != nil {
		a.stopPersist = persister.Sync(a.store, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.effectDone = a.store.RunEffect(ctx, effects.NewLoginEffect(authService, logger))

	a.movies, a.moviesErr = tmdb.NewClient(cfg.TMDB.URL, cfg.TMDB.Token, logger,
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithCacheTTL(cfg.TMDB.CacheTTL),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithTracker(a.tracker),
	)
	if a.moviesErr != nil {
		logger.Debug().Err(a.moviesErr).Msg("Movie commands unavailable")
	}

	var searcher ui.MovieSearcher
	if a.movies != nil {
		searcher = a.movies
	}
	a.component = ui.NewAuthComponent(a.store, searcher, ui.NewErrorNotifier(logger), logger)

	return a, nil
}

// movieClient returns the TMDB client or the reason it could not be built
func (a *application) movieClient() (*tmdb.Client, error) {
	if a.movies == nil {
		if errors.Is(a.moviesErr, tmdb.ErrMissingToken) {
			return nil, fmt.Errorf("%w: set tmdb.token in config or %s_TMDB_TOKEN", a.moviesErr, config.EnvPrefix)
		}
		return nil, fmt.Errorf("failed to create TMDB client: %w", a.moviesErr)
	}
	return a.movies, nil
}

func (a *application) close() {
	a.cancel()
	select {
	case <-a.effectDone:
	case <-time.After(time.Second):
		logger.Warn().Msg("Login effect did not stop in time")
	}
	if a.stopPersist != nil {
		a.stopPersist()
	}
	if n := a.tracker.Active(); n > 0 {
		logger.Debug().Int("active", n).Msg("Requests still in flight at shutdown")
	}
}

func shutdownApp(cmd *cobra.Command, args []string) error {
	if app != nil {
		app.close()
		app = nil
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
