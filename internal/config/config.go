// Package config holds user preferences for the storefront client. The
// config lives in a project-local .vitrine directory when one exists (or can
// be created), falling back to the home directory, and can be overridden per
// run through environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Environment overrides, applied after the file is read.
const (
	EnvAPIURL  = "VITRINE_API_URL"
	EnvTheme   = "VITRINE_THEME"
	EnvTimeout = "VITRINE_TIMEOUT"
)

// DefaultAPIURL points at a local development backend.
const DefaultAPIURL = "http://localhost:8000"

// Config holds user preferences.
type Config struct {
	APIURL         string `json:"api_url"`
	Theme          string `json:"theme"` // "light", "dark" or "" for auto
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		TimeoutSeconds: 15,
	}
}

// Timeout converts the configured request timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Dir returns the directory where config and the session token are stored.
// A project-local .vitrine directory wins so each checkout can point at its
// own backend; otherwise ~/.vitrine.
func Dir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".vitrine")
		if stat, err := os.Stat(localDir); (err == nil && stat.IsDir()) || os.IsNotExist(err) {
			return localDir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vitrine"), nil
}

// File returns the full path to the config file.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk and applies environment overrides.
// A missing file yields the defaults, not an error.
func Load() (Config, error) {
	path, err := File()
	if err != nil {
		return applyEnv(Default()), err
	}
	return LoadFrom(path)
}

// LoadFrom reads a specific config file, applying environment overrides.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}
	if err != nil {
		return applyEnv(cfg), err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return applyEnv(Default()), fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	return applyEnv(cfg), nil
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := File()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.TimeoutSeconds = secs
		}
	}
	return cfg
}
