package journal

import "github.com/JaimeStill/craftsync/pkg/repository"

const projection = `id, document_id, document_title, slug, post_id, mode, action, synced_at`

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.ID,
		&e.DocumentID,
		&e.DocumentTitle,
		&e.Slug,
		&e.PostID,
		&e.Mode,
		&e.Action,
		&e.SyncedAt,
	)
	return e, err
}
