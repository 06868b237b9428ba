package config

import (
	"os"
	"strconv"

	"github.com/JaimeStill/craftsync/pkg/database"
)

// EnvJournalEnabled toggles the sync journal.
const EnvJournalEnabled = "JOURNAL_ENABLED"

var journalDatabaseEnv = &database.Env{
	Host:         "JOURNAL_DATABASE_HOST",
	Port:         "JOURNAL_DATABASE_PORT",
	Name:         "JOURNAL_DATABASE_NAME",
	User:         "JOURNAL_DATABASE_USER",
	Password:     "JOURNAL_DATABASE_PASSWORD",
	SSLMode:      "JOURNAL_DATABASE_SSL_MODE",
	MaxOpenConns: "JOURNAL_DATABASE_MAX_OPEN_CONNS",
	ConnTimeout:  "JOURNAL_DATABASE_CONN_TIMEOUT",
}

// JournalConfig controls the PostgreSQL sync journal.
type JournalConfig struct {
	Enabled  bool            `toml:"enabled"`
	Database database.Config `toml:"database"`
}

// Finalize loads environment overrides and, when enabled, validates the database settings.
func (c *JournalConfig) Finalize() error {
	if v := os.Getenv(EnvJournalEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if !c.Enabled {
		return nil
	}
	return c.Database.Finalize(journalDatabaseEnv)
}

// Merge applies values from overlay configuration, including boolean fields.
func (c *JournalConfig) Merge(overlay *JournalConfig) {
	c.Enabled = overlay.Enabled
	c.Database.Merge(&overlay.Database)
}
