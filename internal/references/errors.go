package references

import "errors"

// Domain errors for reference resolution.
var (
	// ErrUnknownKind indicates a kind with no configured schema.
	ErrUnknownKind = errors.New("unknown record kind")

	// ErrEmptyName indicates an empty name was passed for resolution.
	ErrEmptyName = errors.New("name required")
)
