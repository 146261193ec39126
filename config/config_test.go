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
		OMDb: OMDbConfig{
			BaseURL: "https://www.omdbapi.com/",
			Timeout: 10 * time.Second,
		},
		Search: SearchConfig{
			Debounce:          300 * time.Millisecond,
			RatingConcurrency: 4,
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
			name:   "missing api key is allowed",
			mutate: func(c *Config) { c.OMDb.APIKey = "" },
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
		{
			name:    "zero debounce",
			mutate:  func(c *Config) { c.Search.Debounce = 0 },
			wantErr: "search.debounce",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.OMDb.Timeout = 0 },
			wantErr: "omdb.timeout",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Search.RatingConcurrency = 0 },
			wantErr: "search.rating_concurrency",
		},
		{
			name:    "broken preset",
			mutate:  func(c *Config) { c.Filter.Presets = map[string]string{"bad": "imdb >"} },
			wantErr: "filter.presets",
		},
		{
			name:    "misspelled preset variable",
			mutate:  func(c *Config) { c.Filter.Presets = map[string]string{"good": "imbd >= 70"} },
			wantErr: "filter.presets",
		},
		{
			name:    "broken default filter",
			mutate:  func(c *Config) { c.Filter.Default = "(" },
			wantErr: "filter.default",
		},
		{
			name: "valid presets",
			mutate: func(c *Config) {
				c.Filter.Presets = map[string]string{"good": "imdb >= 80"}
				c.Filter.Default = "Year > 1990"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OMDB_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.OMDb.APIKey)
	assert.Equal(t, "https://www.omdbapi.com/", cfg.OMDb.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.OMDb.Timeout)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 4, cfg.Search.RatingConcurrency)
	assert.True(t, cfg.Search.ItemRatings)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("OMDB_API_KEY", "")

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
omdb:
  api_key: " file-key "
  timeout: 5s
search:
  debounce: 150ms
  rating_concurrency: 2
filter:
  default: "imdb >= 70"
  presets:
    classics: "Year < 1980"
logging:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.OMDb.APIKey)
	assert.Equal(t, 5*time.Second, cfg.OMDb.Timeout)
	assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 2, cfg.Search.RatingConcurrency)
	assert.Equal(t, "imdb >= 70", cfg.Filter.Default)
	assert.Equal(t, map[string]string{"classics": "Year < 1980"}, cfg.Filter.Presets)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	t.Run("bare key", func(t *testing.T) {
		t.Setenv("OMDB_API_KEY", "env-key")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "env-key", cfg.OMDb.APIKey)
	})

	t.Run("prefixed overrides", func(t *testing.T) {
		t.Setenv("OMDB_API_KEY", "")
		t.Setenv("REELCHECK_OMDB_API_KEY", "prefixed-key")
		t.Setenv("REELCHECK_LOGGING_LEVEL", "warn")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "prefixed-key", cfg.OMDb.APIKey)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OMDB_API_KEY", "")
	os.Unsetenv("OMDB_API_KEY")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OMDB_API_KEY=dotenv-key\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("OMDB_API_KEY") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.OMDb.APIKey)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
