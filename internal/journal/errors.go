package journal

import "errors"

// Domain errors for the sync journal.
var (
	ErrNotFound  = errors.New("journal entry not found")
	ErrDuplicate = errors.New("journal entry already exists")
	ErrEmptySlug = errors.New("journal entry slug is required")
	ErrEmptyPost = errors.New("journal entry post id is required")
)
