package syncer

import "errors"

// Domain errors for a sync run.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrEmptyTitle       = errors.New("document title is required")
)
