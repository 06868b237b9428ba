package journal

import "context"

// System records and lists sync runs.
type System interface {
	// Record stores entry. A zero ID or SyncedAt is assigned by the system.
	Record(ctx context.Context, entry Entry) (*Entry, error)

	// ListBySlug returns the most recent runs for slug, newest first.
	ListBySlug(ctx context.Context, slug string, limit int) ([]Entry, error)
}
