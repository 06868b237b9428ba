package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/craftsync/internal/sanity"
)

const (
	EnvSanityProjectID  = "SANITY_PROJECT_ID"
	EnvSanityDataset    = "SANITY_DATASET"
	EnvSanityToken      = "SANITY_TOKEN"
	EnvSanityAPIVersion = "SANITY_API_VERSION"
	EnvSanityAPIHost    = "SANITY_API_HOST"
	EnvSanityTimeout    = "SANITY_TIMEOUT"
)

// SanityConfig identifies the Sanity project and dataset written to.
type SanityConfig struct {
	ProjectID  string `toml:"project_id"`
	Dataset    string `toml:"dataset"`
	Token      string `toml:"token"`
	APIVersion string `toml:"api_version"`
	// APIHost replaces https://<project_id>.api.sanity.io when set.
	APIHost string `toml:"api_host"`
	Timeout string `toml:"timeout"`
}

// TimeoutDuration parses and returns the request timeout as a time.Duration.
func (c *SanityConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Client returns the client settings for the Sanity API.
func (c *SanityConfig) Client() sanity.Config {
	return sanity.Config{
		ProjectID:  c.ProjectID,
		Dataset:    c.Dataset,
		Token:      c.Token,
		APIVersion: c.APIVersion,
		APIHost:    c.APIHost,
		Timeout:    c.TimeoutDuration(),
	}
}

// Finalize applies defaults, loads environment overrides, and validates the Sanity configuration.
func (c *SanityConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *SanityConfig) Merge(overlay *SanityConfig) {
	if overlay.ProjectID != "" {
		c.ProjectID = overlay.ProjectID
	}
	if overlay.Dataset != "" {
		c.Dataset = overlay.Dataset
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.APIVersion != "" {
		c.APIVersion = overlay.APIVersion
	}
	if overlay.APIHost != "" {
		c.APIHost = overlay.APIHost
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *SanityConfig) loadDefaults() {
	if c.Dataset == "" {
		c.Dataset = "production"
	}
	if c.APIVersion == "" {
		c.APIVersion = "2021-06-07"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *SanityConfig) loadEnv() {
	if v := os.Getenv(EnvSanityProjectID); v != "" {
		c.ProjectID = v
	}
	if v := os.Getenv(EnvSanityDataset); v != "" {
		c.Dataset = v
	}
	if v := os.Getenv(EnvSanityToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvSanityAPIVersion); v != "" {
		c.APIVersion = v
	}
	if v := os.Getenv(EnvSanityAPIHost); v != "" {
		c.APIHost = v
	}
	if v := os.Getenv(EnvSanityTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *SanityConfig) validate() error {
	if c.ProjectID == "" && c.APIHost == "" {
		return fmt.Errorf("project_id required")
	}
	if c.Token == "" {
		return fmt.Errorf("token required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
