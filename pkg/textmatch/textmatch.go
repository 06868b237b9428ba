// Package textmatch provides case-insensitive edit distance and
// nearest-candidate selection for reconciling free-text names.
package textmatch

import "strings"

// Distance returns the Levenshtein edit distance between a and b after
// lowercasing both. Distances are counted in runes, not bytes.
func Distance(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Match is the outcome of Closest.
type Match struct {
	Index    int
	Distance int
}

// Closest returns the candidate with the strictly smallest distance to input,
// provided that distance does not exceed threshold. Ties keep the earliest
// candidate. Empty candidates are never selected.
func Closest(input string, candidates []string, threshold int) (Match, bool) {
	best := Match{Index: -1}
	for i, c := range candidates {
		if c == "" {
			continue
		}
		d := Distance(input, c)
		if best.Index < 0 || d < best.Distance {
			best = Match{Index: i, Distance: d}
		}
	}

	if best.Index < 0 || best.Distance > threshold {
		return Match{Index: -1}, false
	}
	return best, true
}
