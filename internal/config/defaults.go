package config

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/craftsync/internal/metadata"
	"github.com/JaimeStill/craftsync/pkg/slug"
)

// DefaultsConfig supplies metadata values for keys a document omits.
type DefaultsConfig struct {
	Slug       string   `toml:"slug"`
	Author     string   `toml:"author"`
	Categories []string `toml:"categories"`
}

// Metadata returns the extractor defaults.
func (c *DefaultsConfig) Metadata() metadata.Defaults {
	return metadata.Defaults{
		Slug:       c.Slug,
		Author:     c.Author,
		Categories: append([]string(nil), c.Categories...),
	}
}

// Finalize applies defaults and validates the fallback values.
func (c *DefaultsConfig) Finalize() error {
	c.loadDefaults()
	return c.validate()
}

// Merge applies values from overlay configuration, including array fields.
func (c *DefaultsConfig) Merge(overlay *DefaultsConfig) {
	if overlay.Slug != "" {
		c.Slug = overlay.Slug
	}
	if overlay.Author != "" {
		c.Author = overlay.Author
	}
	if overlay.Categories != nil {
		c.Categories = overlay.Categories
	}
}

func (c *DefaultsConfig) loadDefaults() {
	if c.Slug == "" {
		c.Slug = "untitled-post"
	}
	if c.Author == "" {
		c.Author = "Unknown Author"
	}
	if c.Categories == nil {
		c.Categories = []string{"Uncategorized"}
	}
}

func (c *DefaultsConfig) validate() error {
	if slug.Make(c.Slug) != c.Slug {
		return fmt.Errorf("slug %q is not a valid slug", c.Slug)
	}
	if strings.TrimSpace(c.Author) == "" {
		return fmt.Errorf("author required")
	}
	return nil
}
