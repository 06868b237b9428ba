package config

import (
	"fmt"
	"os"
	"strconv"
)

// EnvMatchingThreshold overrides the approximate match threshold.
const EnvMatchingThreshold = "MATCHING_THRESHOLD"

// DefaultThreshold is the largest edit distance accepted as a match.
const DefaultThreshold = 2

// MatchingConfig tunes approximate name matching.
type MatchingConfig struct {
	// Threshold is the maximum edit distance for an approximate match.
	// A negative value disables approximate matching.
	Threshold *int `toml:"threshold"`
}

// ThresholdValue returns the effective threshold.
func (c *MatchingConfig) ThresholdValue() int {
	if c.Threshold == nil {
		return DefaultThreshold
	}
	return *c.Threshold
}

// Finalize applies defaults, loads environment overrides, and validates the matching configuration.
func (c *MatchingConfig) Finalize() error {
	c.loadDefaults()
	return c.loadEnv()
}

// Merge applies values from overlay configuration that are set.
func (c *MatchingConfig) Merge(overlay *MatchingConfig) {
	if overlay.Threshold != nil {
		t := *overlay.Threshold
		c.Threshold = &t
	}
}

func (c *MatchingConfig) loadDefaults() {
	if c.Threshold == nil {
		t := DefaultThreshold
		c.Threshold = &t
	}
}

func (c *MatchingConfig) loadEnv() error {
	v := os.Getenv(EnvMatchingThreshold)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", EnvMatchingThreshold, err)
	}
	c.Threshold = &n
	return nil
}
