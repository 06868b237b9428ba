// Package metadata extracts post metadata from the leading "Key: value"
// lines of a Craft document.
package metadata

import (
	"sort"
	"strings"
)

// Key identifies a logical metadata field.
type Key string

// Logical metadata keys.
const (
	KeyTitle          Key = "title"
	KeySlug           Key = "slug"
	KeyAuthor         Key = "author"
	KeyCategory       Key = "category"
	KeyDate           Key = "date"
	KeyExcerpt        Key = "excerpt"
	KeyFeatured       Key = "featured"
	KeyTags           Key = "tags"
	KeySEOTitle       Key = "seo_title"
	KeySEODescription Key = "seo_description"
)

// Markers maps each logical key to the literal prefix that introduces it.
// Keys with an empty marker are not recognized.
type Markers map[Key]string

// DefaultMarkers returns the marker set used when configuration supplies none.
func DefaultMarkers() Markers {
	return Markers{
		KeyTitle:          "Title:",
		KeySlug:           "Slug:",
		KeyAuthor:         "Author:",
		KeyCategory:       "Category:",
		KeyDate:           "Date:",
		KeyExcerpt:        "Excerpt:",
		KeyFeatured:       "Featured:",
		KeyTags:           "Tags:",
		KeySEOTitle:       "SEO Title:",
		KeySEODescription: "SEO Description:",
	}
}

// Matcher recognizes marker lines. Markers are tried longest first so a
// marker that extends another one always wins.
type Matcher struct {
	entries []entry
}

type entry struct {
	key    Key
	marker string
}

// NewMatcher builds a Matcher over the non-empty markers.
func NewMatcher(markers Markers) *Matcher {
	entries := make([]entry, 0, len(markers))
	for k, m := range markers {
		if m == "" {
			continue
		}
		entries = append(entries, entry{key: k, marker: m})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].marker) != len(entries[j].marker) {
			return len(entries[i].marker) > len(entries[j].marker)
		}
		return entries[i].key < entries[j].key
	})
	return &Matcher{entries: entries}
}

// Match reports the key whose marker starts text (ignoring leading
// whitespace) and the raw value following the marker, trimmed.
func (m *Matcher) Match(text string) (Key, string, bool) {
	text = strings.TrimLeft(text, " \t")
	for _, e := range m.entries {
		if strings.HasPrefix(text, e.marker) {
			return e.key, strings.TrimSpace(text[len(e.marker):]), true
		}
	}
	return "", "", false
}

// IsMarker reports whether text starts with any marker. Indentation is
// ignored, so an indented marker line still opens a metadata run.
func (m *Matcher) IsMarker(text string) bool {
	_, _, ok := m.Match(text)
	return ok
}
