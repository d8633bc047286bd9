// Package config loads the application configuration from a TOML file
// with environment-variable overrides. A missing config file is not an
// error: defaults apply.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "QUILL_"

// Config is the application configuration.
type Config struct {
	// Paths.
	LanguagesDir string `toml:"languagesDir"`
	SettingsFile string `toml:"settingsFile"`

	// Logging.
	LogLevel string `toml:"logLevel"`
	LogFile  string `toml:"logFile"`

	// Editor limits and defaults.
	MaxFileSize  int64 `toml:"maxFileSize"`
	RecentLimit  int   `toml:"recentLimit"`
	CreateOnOpen bool  `toml:"createOnOpen"`
}

// Default returns the built-in configuration, rooted under the user's
// config directory when one is available.
func Default() Config {
	base := ".quill"
	if dir, err := os.UserConfigDir(); err == nil {
		base = filepath.Join(dir, "quill")
	}
	return Config{
		LanguagesDir: filepath.Join(base, "languages"),
		SettingsFile: filepath.Join(base, "settings.json"),
		LogLevel:     "info",
		MaxFileSize:  10 * 1024 * 1024,
		RecentLimit:  20,
		CreateOnOpen: true,
	}
}

// Load reads the configuration file at path, layering it over the
// defaults and applying QUILL_* environment overrides last. An empty
// path or a missing file yields the defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Not an error: run on defaults.
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays QUILL_-prefixed environment variables. Empty
// values count as set.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvPrefix + "LANGUAGES_DIR"); ok {
		cfg.LanguagesDir = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "SETTINGS_FILE"); ok {
		cfg.SettingsFile = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "MAX_FILE_SIZE"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxFileSize = n
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "RECENT_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RecentLimit = n
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "CREATE_ON_OPEN"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CreateOnOpen = b
		}
	}
}
