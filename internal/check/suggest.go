package check

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxDistance bounds how far a did-you-mean suggestion may be from the input.
func maxDistance(s string) int {
	return max(2, len(s)/4)
}

// closest returns the candidate most likely meant by s, or "" if none is
// close enough. Candidates containing s as a subsequence win; otherwise the
// one with the smallest edit distance.
func closest(s string, candidates []string) string {
	if s == "" || len(candidates) == 0 {
		return ""
	}
	limit := maxDistance(s)

	ranks := fuzzy.RankFind(s, candidates)
	sort.Sort(ranks)
	if len(ranks) > 0 && ranks[0].Distance <= limit {
		return ranks[0].Target
	}

	best, bestDist := "", limit+1
	for _, cand := range candidates {
		if d := fuzzy.LevenshteinDistance(s, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}
