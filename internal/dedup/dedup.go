package dedup

import (
	"strings"

	"marketscout/internal/core"
)

// Thresholds above which two distinct-URL results are treated as the same
// story. Titles repeat more legitimately than bodies, hence the lower bar.
const (
	titleSimilarityThreshold   = 0.8
	contentSimilarityThreshold = 0.9
)

// Deduplicate removes exact and near-duplicate results. For repeated URLs the
// record with the higher relevance score wins. Across distinct URLs a
// candidate is dropped when its title or content is nearly identical to an
// already-accepted record. Output order is not guaranteed to match input
// order. The pass is O(n²); the gatherer bounds the corpus to well under 150
// results so no index structure is needed.
func Deduplicate(results []core.RawResult) []core.RawResult {
	byURL := make(map[string]core.RawResult, len(results))
	order := make([]string, 0, len(results))

	for _, result := range results {
		existing, seen := byURL[result.URL]
		if !seen {
			byURL[result.URL] = result
			order = append(order, result.URL)
			continue
		}
		if result.RelevanceScore > existing.RelevanceScore {
			byURL[result.URL] = result
		}
	}

	accepted := make([]core.RawResult, 0, len(order))
	for _, url := range order {
		candidate := byURL[url]
		if isNearDuplicate(candidate, accepted) {
			continue
		}
		accepted = append(accepted, candidate)
	}

	return accepted
}

func isNearDuplicate(candidate core.RawResult, accepted []core.RawResult) bool {
	for _, kept := range accepted {
		if similarity(candidate.Title, kept.Title) > titleSimilarityThreshold {
			return true
		}
		if similarity(candidate.Content, kept.Content) > contentSimilarityThreshold {
			return true
		}
	}
	return false
}

// similarity is a cheap positional character match: the count of equal
// characters at equal positions over the shorter string, divided by the
// longer length. Returns a value in [0,1].
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}

	matches := 0
	for i := 0; i < shorter; i++ {
		if a[i] == b[i] {
			matches++
		}
	}

	return float64(matches) / float64(longer)
}
