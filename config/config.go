package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/reelcheck/filter"
)

// EnvPrefix prefixes every environment override, e.g. REELCHECK_OMDB_API_KEY
const EnvPrefix = "REELCHECK"

// Load loads the configuration from file, .env and the environment. A
// missing config file is not an error.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	// Environment variables override the config file
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("omdb.api_key", EnvPrefix+"_OMDB_API_KEY", "OMDB_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	// Use explicit path or search default locations
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".reelcheck"))
		}
		v.AddConfigPath("/etc/reelcheck/")
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case configPath != "" && errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("config file not found: %w", err)
		default:
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.OMDb.APIKey = strings.TrimSpace(cfg.OMDb.APIKey)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("omdb.api_key", "")
	v.SetDefault("omdb.base_url", "https://www.omdbapi.com/")
	v.SetDefault("omdb.timeout", "10s")

	v.SetDefault("search.debounce", "300ms")
	v.SetDefault("search.rating_concurrency", 4)
	v.SetDefault("search.item_ratings", true)

	v.SetDefault("filter.default", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
}

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {
	if cfg.OMDb.BaseURL == "" {
		return fmt.Errorf("omdb.base_url is required")
	}
	if cfg.OMDb.Timeout <= 0 {
		return fmt.Errorf("omdb.timeout must be positive")
	}

	if cfg.Search.Debounce <= 0 {
		return fmt.Errorf("search.debounce must be positive")
	}
	if cfg.Search.RatingConcurrency <= 0 {
		return fmt.Errorf("search.rating_concurrency must be positive")
	}

	presets := filter.NewPresets(nil)
	if err := presets.RegisterAll(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter.presets: %w", err)
	}
	if cfg.Filter.Default != "" {
		if _, err := presets.Resolve(cfg.Filter.Default, ""); err != nil {
			return fmt.Errorf("invalid filter.default: %w", err)
		}
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
