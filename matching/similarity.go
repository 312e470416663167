package matching

import "math"

// subsetBoostFactor closes 10% of the remaining gap to 1.0 when the query is
// fully contained in the candidate. A query contained in a richer stored
// question is strong evidence of a match even at modest token overlap.
const subsetBoostFactor = 0.10

// Jaccard returns |a ∩ b| / |a ∪ b|. Two empty sets score 0.0 rather than
// dividing by zero; an empty query should never look like a perfect match.
func Jaccard(a, b TokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// Score computes the similarity between a query and a stored candidate:
// base Jaccard, plus the subset boost when the non-empty query is entirely
// contained in the candidate. Never decreases the base score, never exceeds
// 1.0.
func Score(query, candidate TokenSet) float64 {
	base := Jaccard(query, candidate)
	if len(query) > 0 && query.SubsetOf(candidate) {
		base = math.Min(1.0, base+(1.0-base)*subsetBoostFactor)
	}
	return base
}
