package config

import (
	"fmt"

	"github.com/JaimeStill/craftsync/internal/metadata"
)

// MarkersConfig maps metadata keys to the prefixes that introduce them.
// Keys left out use the default marker; an empty marker disables the key.
type MarkersConfig map[string]string

// Markers converts the configuration into extractor markers.
func (c MarkersConfig) Markers() metadata.Markers {
	m := make(metadata.Markers, len(c))
	for k, v := range c {
		m[metadata.Key(k)] = v
	}
	return m
}

// Finalize fills unset keys with defaults and rejects unknown keys.
func (c *MarkersConfig) Finalize() error {
	if *c == nil {
		*c = MarkersConfig{}
	}
	defaults := metadata.DefaultMarkers()
	for k := range *c {
		if _, ok := defaults[metadata.Key(k)]; !ok {
			return fmt.Errorf("unknown metadata key %q", k)
		}
	}
	for k, v := range defaults {
		if _, ok := (*c)[string(k)]; !ok {
			(*c)[string(k)] = v
		}
	}
	return nil
}

// Merge overrides markers named in the overlay.
func (c *MarkersConfig) Merge(overlay *MarkersConfig) {
	if len(*overlay) == 0 {
		return
	}
	if *c == nil {
		*c = MarkersConfig{}
	}
	for k, v := range *overlay {
		(*c)[k] = v
	}
}
