// Package journal records completed sync runs in PostgreSQL.
package journal

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one completed sync run.
type Entry struct {
	ID            uuid.UUID `json:"id"`
	DocumentID    string    `json:"document_id"`
	DocumentTitle string    `json:"document_title"`
	Slug          string    `json:"slug"`
	PostID        string    `json:"post_id"`
	Mode          string    `json:"mode"`
	Action        string    `json:"action"`
	SyncedAt      time.Time `json:"synced_at"`
}

// DefaultListLimit caps ListBySlug when the caller passes no limit.
const DefaultListLimit = 20
