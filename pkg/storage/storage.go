package storage

import "context"

// System persists opaque blobs under slash-separated keys.
type System interface {
	// Store saves data at key, replacing existing contents.
	// Returns ErrInvalidKey if the key is empty or escapes the root.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the data stored at key.
	// Returns ErrNotFound if nothing is stored there.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Validate reports whether key holds data.
	Validate(ctx context.Context, key string) (bool, error)

	// Path returns the absolute filesystem path backing key.
	Path(ctx context.Context, key string) (string, error)
}
