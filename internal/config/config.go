// Package config loads and validates the confprog TOML configuration.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Source identifies the Sessionize event pages to extract.
type Source struct {
	BaseURL    string `toml:"base_url"`
	ProgramID  string `toml:"program_id"`
	WorkshopID string `toml:"workshop_id"`
}

// Schedule controls time normalization.
type Schedule struct {
	Timezone   string `toml:"timezone"`
	DateFormat string `toml:"date_format"`
	Year       int    `toml:"year"`
}

// Fetch controls the HTTP client and the raw-HTML cache.
type Fetch struct {
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	RetryAttempts         int    `toml:"retry_attempts"`
	UserAgent             string `toml:"user_agent"`
	CacheDir              string `toml:"cache_dir"`
}

// Storage selects and locates the persistence backend.
type Storage struct {
	Backend string `toml:"backend"`
	DataDir string `toml:"data_dir"`
}

// Config is the full application configuration.
type Config struct {
	Source   Source   `toml:"source"`
	Schedule Schedule `toml:"schedule"`
	Fetch    Fetch    `toml:"fetch"`
	Storage  Storage  `toml:"storage"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Source: Source{
			BaseURL: "https://sessionize.com/api/v2",
		},
		Schedule: Schedule{
			Timezone:   "Europe/Berlin",
			DateFormat: "January 2",
		},
		Fetch: Fetch{
			RequestTimeoutSeconds: 10,
			RetryAttempts:         3,
			UserAgent:             "confprog-cli/1.0",
			CacheDir:              "~/.cache/confprog",
		},
		Storage: Storage{
			Backend: "sqlite",
			DataDir: "~/.local/share/confprog",
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	return "~/.config/confprog/config.toml"
}

// Load reads the config at path, layered over defaults. An empty path means
// DefaultPath; a missing file at the default path yields plain defaults,
// while a missing explicitly-given file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}

	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.Source.ProgramID == "" {
		return fmt.Errorf("source.program_id is required")
	}
	if c.Fetch.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.request_timeout_seconds must be positive, got %d", c.Fetch.RequestTimeoutSeconds)
	}
	if c.Fetch.RetryAttempts < 0 {
		return fmt.Errorf("fetch.retry_attempts must not be negative, got %d", c.Fetch.RetryAttempts)
	}
	switch c.Storage.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("storage.backend must be 'json' or 'sqlite', got %q", c.Storage.Backend)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured reference timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Schedule.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("schedule.timezone: %w", err)
	}
	return loc, nil
}

// Timeout returns the fetch timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Fetch.RequestTimeoutSeconds) * time.Second
}

// Year returns the conference year, defaulting to the current year.
func (c *Config) Year() int {
	if c.Schedule.Year > 0 {
		return c.Schedule.Year
	}
	return time.Now().Year()
}

// WriteSample writes the embedded sample config to path, creating parent
// directories as needed. Refuses to overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists: %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0644); err != nil {
		return fmt.Errorf("writing sample config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading "~/" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
