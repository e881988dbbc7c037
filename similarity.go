package sitesect

import "strings"

// WordSimilarity computes Jaccard similarity over lowercase word sets:
// |intersection| / |union|. Returns 0 when either input has no words, and 1
// for identical nonempty word sets. Always in [0,1].
func WordSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}

	union := len(wordsA) + len(wordsB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}
