package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MARQUEE_TMDB_TOKEN
const EnvPrefix = "MARQUEE"

// Load loads the configuration from file, .env and the environment.
// A missing config file is not an error; everything can come from the
// environment.
func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".marquee"))
		}

		// Check /etc
		v.AddConfigPath("/etc/marquee/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.State.Path = expandHome(cfg.State.Path)

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.token", "")
	v.SetDefault("tmdb.timeout", "30s")
	v.SetDefault("tmdb.cache_ttl", "10m")
	v.SetDefault("tmdb.language", "")

	// REST backend defaults
	v.SetDefault("api.url", "")
	v.SetDefault("api.timeout", "30s")

	// Auth defaults
	v.SetDefault("auth.delay", "1s")

	// State defaults
	v.SetDefault("state.persist", true)
	v.SetDefault("state.path", "~/.marquee/state.json")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TMDB.URL == "" {
		return fmt.Errorf("tmdb.url is required")
	}

	if cfg.TMDB.Timeout < 0 {
		return fmt.Errorf("tmdb.timeout must not be negative")
	}
	if cfg.TMDB.CacheTTL < 0 {
		return fmt.Errorf("tmdb.cache_ttl must not be negative")
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if cfg.Auth.Delay < 0 {
		return fmt.Errorf("auth.delay must not be negative")
	}

	if cfg.State.Persist && cfg.State.Path == "" {
		return fmt.Errorf("state.path is required when state.persist is enabled")
	}

	for name, preset := range cfg.Filter.Presets {
		if strings.TrimSpace(preset.Expression) == "" {
			return fmt.Errorf("filter preset %q has no expression", name)
		}
	}

	// Validate logging level
	if !ValidLogLevel(cfg.Logging.Level) {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidLogLevel reports whether level is one of debug, info, warn or error
func ValidLogLevel(level string) bool {
	return validLevels[level]
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
