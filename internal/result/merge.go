package result

import "sort"

// Merge combines base and extra into one deduplicated, ranked list of at
// most limit entries. On an identity-key conflict the newcomer replaces the
// incumbent only if it outranks it (higher score, or equal score from the
// intent layer). Ordering is score descending with the fixed category
// priority as tie-break, so the output is deterministic for fixed inputs.
func Merge(base, extra []SearchResult, limit int) []SearchResult {
	merged := make([]SearchResult, 0, len(base)+len(extra))
	index := make(map[Key]int, len(base)+len(extra))

	for _, r := range base {
		if !r.Valid() {
			continue
		}
		if i, ok := index[r.Key()]; ok {
			if outranks(r, merged[i]) {
				merged[i] = r
			}
			continue
		}
		index[r.Key()] = len(merged)
		merged = append(merged, r)
	}

	for _, r := range extra {
		if !r.Valid() {
			continue
		}
		if i, ok := index[r.Key()]; ok {
			if outranks(r, merged[i]) {
				merged[i] = r
			}
			continue
		}
		index[r.Key()] = len(merged)
		merged = append(merged, r)
	}

	Sort(merged)

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// Sort orders results in place by score descending, breaking ties with the
// fixed category priority and finally by title for full determinism.
func Sort(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		pi, pj := results[i].Category.Priority(), results[j].Category.Priority()
		if pi != pj {
			return pi < pj
		}
		return results[i].Title < results[j].Title
	})
}
