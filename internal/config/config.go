// Package config provides application configuration management with support for
// TOML files, environment variable overrides, and configuration overlays.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/craftsync/pkg/logging"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// EnvCraftsyncEnv specifies the environment name for configuration overlays.
	EnvCraftsyncEnv = "CRAFTSYNC_ENV"
)

var loggingEnv = &logging.Env{
	Level:  "LOG_LEVEL",
	Format: "LOG_FORMAT",
	Output: "LOG_OUTPUT",
}

// Config represents the root craftsync configuration.
type Config struct {
	Craft     CraftConfig     `toml:"craft"`
	Sanity    SanityConfig    `toml:"sanity"`
	Logging   logging.Config  `toml:"logging"`
	Images    ImagesConfig    `toml:"images"`
	Matching  MatchingConfig  `toml:"matching"`
	Markers   MarkersConfig   `toml:"markers"`
	Defaults  DefaultsConfig  `toml:"defaults"`
	Schema    SchemaConfig    `toml:"schema"`
	Journal   JournalConfig   `toml:"journal"`
	Snapshots SnapshotsConfig `toml:"snapshots"`
}

// Load reads the base configuration file at path and applies the overlay
// for env (or $CRAFTSYNC_ENV when env is empty). A missing base file yields
// an empty configuration so defaults and environment variables still apply.
// The result is not finalized.
func Load(path, env string) (*Config, error) {
	if path == "" {
		path = BaseConfigFile
	}

	cfg, err := load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = &Config{}
	case err != nil:
		return nil, err
	}

	if overlay := overlayPath(path, env); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	if err := c.Craft.Finalize(); err != nil {
		return fmt.Errorf("craft: %w", err)
	}
	if err := c.Sanity.Finalize(); err != nil {
		return fmt.Errorf("sanity: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Images.Finalize(); err != nil {
		return fmt.Errorf("images: %w", err)
	}
	if err := c.Matching.Finalize(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if err := c.Markers.Finalize(); err != nil {
		return fmt.Errorf("markers: %w", err)
	}
	if err := c.Defaults.Finalize(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if err := c.Schema.Finalize(); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	if err := c.Journal.Finalize(); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	if err := c.Snapshots.Finalize(); err != nil {
		return fmt.Errorf("snapshots: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	c.Craft.Merge(&overlay.Craft)
	c.Sanity.Merge(&overlay.Sanity)
	c.Logging.Merge(&overlay.Logging)
	c.Images.Merge(&overlay.Images)
	c.Matching.Merge(&overlay.Matching)
	c.Markers.Merge(&overlay.Markers)
	c.Defaults.Merge(&overlay.Defaults)
	c.Schema.Merge(&overlay.Schema)
	c.Journal.Merge(&overlay.Journal)
	c.Snapshots.Merge(&overlay.Snapshots)
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base, env string) string {
	if env == "" {
		env = os.Getenv(EnvCraftsyncEnv)
	}
	if env == "" {
		return ""
	}
	overlayPath := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
	if _, err := os.Stat(overlayPath); err == nil {
		return overlayPath
	}
	return ""
}
