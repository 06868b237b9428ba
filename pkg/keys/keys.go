// Package keys generates the per-item `_key` values Sanity requires on
// every element of an array field.
package keys

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Generator produces item keys. Keys from one Generator must not collide
// within a single document.
type Generator interface {
	Next() string
}

type random struct{}

// Random returns a Generator backed by random UUIDs, truncated to twelve hex
// characters.
func Random() Generator {
	return random{}
}

func (random) Next() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Sequence is a deterministic Generator yielding prefix1, prefix2, ...
// It is not safe for concurrent use.
type Sequence struct {
	Prefix string
	n      int
}

// Next returns the next key in the sequence.
func (s *Sequence) Next() string {
	s.n++
	return s.Prefix + strconv.Itoa(s.n)
}
