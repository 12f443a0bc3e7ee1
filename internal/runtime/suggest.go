package runtime

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestDistance bounds how far a suggestion may be from the name
// the script actually wrote.
const maxSuggestDistance = 3

// Suggest returns the candidate closest to name, or "" when nothing is
// close enough. Candidates that contain name as a subsequence are ranked
// first; otherwise a small edit distance still counts (typos like "hpp").
func Suggest(name string, candidates []string) string {
	if name == "" || len(candidates) == 0 {
		return ""
	}
	pool := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != name {
			pool = append(pool, c)
		}
	}

	ranks := fuzzy.RankFindFold(name, pool)
	sort.Stable(ranks)
	for _, r := range ranks {
		if r.Distance <= maxSuggestDistance {
			return r.Target
		}
	}

	best, bestDist := "", maxSuggestDistance
	lower := strings.ToLower(name)
	for _, c := range pool {
		d := fuzzy.LevenshteinDistance(lower, strings.ToLower(c))
		if d < bestDist && d < len(name) {
			best, bestDist = c, d
		}
	}
	return best
}

// DidYouMean formats a suggestion suffix for an error message.
func DidYouMean(name string, candidates []string) string {
	if s := Suggest(name, candidates); s != "" {
		return fmt.Sprintf(" (did you mean %q?)", s)
	}
	return ""
}
