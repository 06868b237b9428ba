package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/craftsync/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// New creates a journal backed by db.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "journal"),
		now:    time.Now,
	}
}

func (r *repo) Record(ctx context.Context, entry Entry) (*Entry, error) {
	if err := validate(entry); err != nil {
		return nil, err
	}
	entry = prepare(entry, r.now)

	q := `INSERT INTO sync_runs(id, document_id, document_title, slug, post_id, mode, action, synced_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + projection

	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Entry, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			entry.ID, entry.DocumentID, entry.DocumentTitle, entry.Slug,
			entry.PostID, entry.Mode, entry.Action, entry.SyncedAt,
		}, scanEntry)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("sync recorded", "id", saved.ID, "slug", saved.Slug, "action", saved.Action)
	return &saved, nil
}

func (r *repo) ListBySlug(ctx context.Context, slug string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	q := `SELECT ` + projection + ` FROM sync_runs WHERE slug = $1 ORDER BY synced_at DESC LIMIT $2`
	entries, err := repository.QueryMany(ctx, r.db, q, []any{slug, limit}, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return entries, nil
}

func validate(e Entry) error {
	if e.Slug == "" {
		return ErrEmptySlug
	}
	if e.PostID == "" {
		return ErrEmptyPost
	}
	return nil
}

func prepare(e Entry, now func() time.Time) Entry {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.SyncedAt.IsZero() {
		e.SyncedAt = now().UTC()
	}
	return e
}
