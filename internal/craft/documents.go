package craft

import "strings"

// FindByTitle returns the first document whose title contains partial,
// compared case-insensitively.
func FindByTitle(docs []Document, partial string) (Document, bool) {
	needle := strings.ToLower(strings.TrimSpace(partial))
	if needle == "" {
		return Document{}, false
	}
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.Title), needle) {
			return d, true
		}
	}
	return Document{}, false
}

// Titles returns the titles of docs in order.
func Titles(docs []Document) []string {
	titles := make([]string, len(docs))
	for i, d := range docs {
		titles[i] = d.Title
	}
	return titles
}
