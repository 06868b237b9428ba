package posts

import "errors"

// Domain errors for post writes.
var (
	ErrMissingSlug = errors.New("post slug is required")
	ErrInvalidMode = errors.New("invalid write mode")
	ErrNoSlugPath  = errors.New("post schema does not map the slug field")
)
