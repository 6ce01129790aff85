package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	State   StateConfig   `mapstructure:"state"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds TMDB API connection details
type TMDBConfig struct {
	URL      string        `mapstructure:"url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Language string        `mapstructure:"language"`
}

// APIConfig holds the generic REST backend used for non-movie resources
type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig configures the mocked authentication service
type AuthConfig struct {
	Delay time.Duration `mapstructure:"delay"`
	// Users maps usernames to bcrypt password hashes. Empty means the
	// built-in user/pass account.
	Users map[string]string `mapstructure:"users"`
}

// StateConfig controls persistence of the auth state between runs
type StateConfig struct {
	Persist bool   `mapstructure:"persist"`
	Path    string `mapstructure:"path"`
}

// FilterConfig contains search filter definitions
type FilterConfig struct {
	DefaultExpression string                  `mapstructure:"default_expression"`
	Presets           map[string]PresetFilter `mapstructure:"presets"`
}

// PresetFilter is a named filter expression
type PresetFilter struct {
	Description string `mapstructure:"description"`
	Expression  string `mapstructure:"expression"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
