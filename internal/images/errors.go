// Package images copies remote images into the Sanity asset store.
package images

import (
	"errors"
	"fmt"
)

var (
	// ErrTooLarge is returned when a download exceeds the configured size limit.
	ErrTooLarge = errors.New("image exceeds size limit")
	// ErrTooManyPixels is returned when an image header declares more pixels
	// than the resize limit allows.
	ErrTooManyPixels = errors.New("image exceeds pixel limit")
)

// FetchError reports a non-2xx response from the image host.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}
