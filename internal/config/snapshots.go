package config

import (
	"os"
	"strconv"

	"github.com/JaimeStill/craftsync/pkg/storage"
)

// EnvSnapshotsEnabled toggles document snapshots.
const EnvSnapshotsEnabled = "SNAPSHOTS_ENABLED"

var snapshotsStorageEnv = &storage.Env{
	BasePath: "SNAPSHOTS_BASE_PATH",
}

// SnapshotsConfig controls the JSON snapshots of written documents.
type SnapshotsConfig struct {
	Enabled bool           `toml:"enabled"`
	Storage storage.Config `toml:"storage"`
}

// Finalize loads environment overrides and validates the storage settings.
func (c *SnapshotsConfig) Finalize() error {
	if v := os.Getenv(EnvSnapshotsEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	return c.Storage.Finalize(snapshotsStorageEnv)
}

// Merge applies values from overlay configuration, including boolean fields.
func (c *SnapshotsConfig) Merge(overlay *SnapshotsConfig) {
	c.Enabled = overlay.Enabled
	c.Storage.Merge(&overlay.Storage)
}
