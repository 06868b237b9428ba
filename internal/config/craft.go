package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/JaimeStill/craftsync/internal/craft"
)

const (
	// EnvCraftBaseURL overrides the Craft API base URL.
	EnvCraftBaseURL = "CRAFT_BASE_URL"

	// EnvCraftToken overrides the Craft API token.
	EnvCraftToken = "CRAFT_TOKEN"

	// EnvCraftTimeout overrides the Craft request timeout.
	EnvCraftTimeout = "CRAFT_TIMEOUT"
)

// CraftConfig locates the Craft document API.
type CraftConfig struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
	Timeout string `toml:"timeout"`
}

// TimeoutDuration parses and returns the request timeout as a time.Duration.
func (c *CraftConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Client returns the client settings for the Craft API.
func (c *CraftConfig) Client() craft.Config {
	return craft.Config{
		BaseURL: c.BaseURL,
		Token:   c.Token,
		Timeout: c.TimeoutDuration(),
	}
}

// Finalize applies defaults, loads environment overrides, and validates the Craft configuration.
func (c *CraftConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *CraftConfig) Merge(overlay *CraftConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *CraftConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *CraftConfig) loadEnv() {
	if v := os.Getenv(EnvCraftBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvCraftToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvCraftTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *CraftConfig) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
