// Package slug derives URL-safe identifiers from free text.
package slug

import "strings"

// Make lowercases s and collapses every run of characters outside [a-z0-9]
// into a single hyphen. The result never starts or ends with a hyphen, and
// Make(Make(s)) == Make(s).
func Make(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	pending := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
