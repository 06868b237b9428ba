package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/craftsync/internal/config"
	"github.com/JaimeStill/craftsync/internal/craft"
	"github.com/JaimeStill/craftsync/internal/journal"
	"github.com/JaimeStill/craftsync/internal/sanity"
	"github.com/JaimeStill/craftsync/pkg/database"
	"github.com/JaimeStill/craftsync/pkg/storage"
)

// Runtime holds the external connections of one invocation. Journal and
// Snapshots are nil when disabled.
type Runtime struct {
	Logger    *slog.Logger
	Craft     craft.Source
	Sanity    sanity.Store
	Database  *sql.DB
	Journal   journal.System
	Snapshots storage.System
}

func NewRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{
		Logger: logger,
		Craft:  craft.New(cfg.Craft.Client(), logger),
		Sanity: sanity.New(cfg.Sanity.Client(), logger),
	}

	if cfg.Journal.Enabled {
		db, err := database.Open(ctx, &cfg.Journal.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("journal database: %w", err)
		}
		if err := journal.Migrate(db, logger); err != nil {
			db.Close()
			return nil, fmt.Errorf("journal migrations: %w", err)
		}
		rt.Database = db
		rt.Journal = journal.New(db, logger)
	}

	if cfg.Snapshots.Enabled {
		store, err := storage.New(&cfg.Snapshots.Storage, logger)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("snapshot storage: %w", err)
		}
		rt.Snapshots = store
	}

	return rt, nil
}

// Close releases the database connection, if any.
func (r *Runtime) Close() {
	if r.Database != nil {
		if err := r.Database.Close(); err != nil {
			r.Logger.Warn("database close failed", "error", err)
		}
	}
}
