package matching

// SelectBest scores every candidate against the query and returns the index
// and score of the best one, or ok=false when there are no candidates or the
// best score falls below threshold.
//
// Comparison is a strict `>`, so the first candidate encountered wins ties.
// Selection is only reproducible if the caller enumerates candidates in a
// stable order; the store lists scope entries in creation order for this
// reason. The returned score is not rounded; rounding is a presentation
// concern.
func SelectBest(query TokenSet, candidates []TokenSet, threshold float64) (int, float64, bool) {
	bestIdx := -1
	bestScore := -1.0

	for i, candidate := range candidates {
		if score := Score(query, candidate); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestScore < threshold {
		return -1, 0, false
	}
	return bestIdx, bestScore, true
}
