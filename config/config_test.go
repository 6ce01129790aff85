package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			URL:     "https://api.themoviedb.org/3",
			Timeout: 30 * time.Second,
		},
		State: StateConfig{
			Persist: true,
			Path:    "/tmp/state.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing tmdb url",
			mutate:  func(c *Config) { c.TMDB.URL = "" },
			wantErr: "tmdb.url is required",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.TMDB.Timeout = -time.Second },
			wantErr: "tmdb.timeout",
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.Auth.Delay = -time.Second },
			wantErr: "auth.delay",
		},
		{
			name:    "persist without path",
			mutate:  func(c *Config) { c.State.Path = "" },
			wantErr: "state.path",
		},
		{
			name:   "no persistence without path",
			mutate: func(c *Config) { c.State = StateConfig{} },
		},
		{
			name: "empty preset",
			mutate: func(c *Config) {
				c.Filter.Presets = map[string]PresetFilter{"broken": {Expression: " "}}
			},
			wantErr: `filter preset "broken"`,
		},
		{
			name:    "invalid level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level: verbose",
		},
		{
			name:    "invalid format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
tmdb:
  token: file-token
  cache_ttl: 5m
auth:
  delay: 250ms
state:
  path: ` + filepath.Join(dir, "state.json") + `
filter:
  presets:
    classics:
      description: Well rated older movies
      expression: "VoteAverage >= 8 && Year < 1980"
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("MARQUEE_TMDB_TOKEN", "env-token")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.URL)
	assert.Equal(t, "env-token", cfg.TMDB.Token)
	assert.Equal(t, 5*time.Minute, cfg.TMDB.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Auth.Delay)
	assert.True(t, cfg.State.Persist)
	assert.Equal(t, filepath.Join(dir, "state.json"), cfg.State.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	require.Contains(t, cfg.Filter.Presets, "classics")
	assert.Equal(t, "VoteAverage >= 8 && Year < 1980", cfg.Filter.Presets["classics"].Expression)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".marquee", "state.json"), expandHome("~/.marquee/state.json"))
	assert.Equal(t, "/var/lib/state.json", expandHome("/var/lib/state.json"))
	assert.Equal(t, "relative/state.json", expandHome("relative/state.json"))
}

func TestValidLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		assert.True(t, ValidLogLevel(level), level)
	}
	assert.False(t, ValidLogLevel("verbose"))
	assert.False(t, ValidLogLevel(""))
}
