package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/docker/go-units"

	"github.com/JaimeStill/craftsync/internal/images"
)

const (
	EnvImagesMaxSize   = "IMAGES_MAX_SIZE"
	EnvImagesMaxWidth  = "IMAGES_MAX_WIDTH"
	EnvImagesMaxPixels = "IMAGES_MAX_PIXELS"
	EnvImagesTimeout   = "IMAGES_TIMEOUT"
)

// ImagesConfig bounds the images copied into the asset store.
type ImagesConfig struct {
	// MaxSize is a human-readable byte size, e.g. "20MB".
	MaxSize string `toml:"max_size"`
	// MaxWidth downscales wider images to this width. Zero disables resizing.
	MaxWidth int `toml:"max_width"`
	// MaxPixels rejects images whose declared width times height is larger
	// when resizing is enabled.
	MaxPixels  int64  `toml:"max_pixels"`
	Timeout    string `toml:"timeout"`
	maxSizeVal int64
}

// MaxSizeBytes returns the parsed size limit.
func (c *ImagesConfig) MaxSizeBytes() int64 {
	return c.maxSizeVal
}

// TimeoutDuration parses and returns the download timeout as a time.Duration.
func (c *ImagesConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Uploader returns the image uploader settings.
func (c *ImagesConfig) Uploader() images.Config {
	return images.Config{
		MaxSize:   c.maxSizeVal,
		MaxWidth:  c.MaxWidth,
		MaxPixels: c.MaxPixels,
		Timeout:   c.TimeoutDuration(),
	}
}

// Finalize applies defaults, loads environment overrides, and validates the images configuration.
func (c *ImagesConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ImagesConfig) Merge(overlay *ImagesConfig) {
	if size, err := units.FromHumanSize(overlay.MaxSize); err == nil {
		c.MaxSize = overlay.MaxSize
		c.maxSizeVal = size
	}
	if overlay.MaxWidth != 0 {
		c.MaxWidth = overlay.MaxWidth
	}
	if overlay.MaxPixels != 0 {
		c.MaxPixels = overlay.MaxPixels
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *ImagesConfig) loadDefaults() {
	if c.MaxSize == "" {
		c.MaxSize = "20MB"
	}
	if c.MaxPixels == 0 {
		c.MaxPixels = images.DefaultMaxPixels
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *ImagesConfig) loadEnv() {
	if v := os.Getenv(EnvImagesMaxSize); v != "" {
		c.MaxSize = v
	}
	if v := os.Getenv(EnvImagesMaxWidth); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxWidth = n
		}
	}
	if v := os.Getenv(EnvImagesMaxPixels); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxPixels = n
		}
	}
	if v := os.Getenv(EnvImagesTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *ImagesConfig) validate() error {
	size, err := units.FromHumanSize(c.MaxSize)
	if err != nil {
		return fmt.Errorf("invalid max_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_size must be positive")
	}
	c.maxSizeVal = size

	if c.MaxWidth < 0 {
		return fmt.Errorf("max_width must not be negative")
	}
	if c.MaxPixels <= 0 {
		return fmt.Errorf("max_pixels must be positive")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
