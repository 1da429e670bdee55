package ingest

import (
	"strings"

	"github.com/agext/levenshtein"
)

// closest returns the candidate nearest to s by edit distance, or "" when
// none is within maxDist. Earlier candidates win ties.
func closest(s string, candidates []string, maxDist int) string {
	s = strings.ToLower(s)
	best, bestDist := "", maxDist+1
	for _, c := range candidates {
		d := levenshtein.Distance(s, strings.ToLower(c), nil)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// suggestionDistance scales the tolerated typo count with word length.
func suggestionDistance(s string) int {
	switch n := len(s); {
	case n <= 3:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
