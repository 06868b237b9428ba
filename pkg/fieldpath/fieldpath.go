// Package fieldpath sets and reads values in nested map documents using
// dotted paths such as "seo.metaTitle".
package fieldpath

import (
	"errors"
	"strings"
)

// ErrEmptyPath is returned when a path or one of its segments is empty.
var ErrEmptyPath = errors.New("fieldpath: empty path")

// Set stores value at path inside doc, creating intermediate maps as needed.
// An intermediate value that is not a map is replaced.
func Set(doc map[string]any, path string, value any) error {
	segments, err := split(path)
	if err != nil {
		return err
	}

	current := doc
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[seg] = next
		}
		current = next
	}

	current[segments[len(segments)-1]] = value
	return nil
}

// Get returns the value stored at path and whether it was present.
func Get(doc map[string]any, path string) (any, bool) {
	segments, err := split(path)
	if err != nil {
		return nil, false
	}

	var current any = doc
	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func split(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, ErrEmptyPath
		}
	}
	return segments, nil
}
