package matching

import (
	"math"
	"testing"
)

func TestSelectBest(t *testing.T) {
	query := NewTokenSet([]string{"best", "value", "play"})
	candidates := []TokenSet{
		NewTokenSet([]string{"scratchings", "today"}),
		NewTokenSet([]string{"what", "best", "value", "play", "race"}),
		NewTokenSet([]string{"value", "play"}),
	}

	idx, score, ok := SelectBest(query, candidates, 0.5)
	if !ok {
		t.Fatal("expected a match")
	}
	if idx != 1 {
		t.Errorf("winner index = %d, want 1", idx)
	}
	if math.Abs(score-0.64) > scoreTolerance {
		t.Errorf("winner score = %v, want 0.64", score)
	}
}

func TestSelectBestEmptyCandidates(t *testing.T) {
	query := NewTokenSet([]string{"value", "play"})
	if _, _, ok := SelectBest(query, nil, 0.0); ok {
		t.Error("expected no match for empty candidate list")
	}
}

func TestSelectBestThresholdGate(t *testing.T) {
	query := NewTokenSet([]string{"best", "value", "play"})
	candidates := []TokenSet{
		NewTokenSet([]string{"what", "best", "value", "play", "race"}), // scores 0.64
	}

	if _, _, ok := SelectBest(query, candidates, 0.70); ok {
		t.Error("candidate below threshold must not be returned")
	}

	idx, score, ok := SelectBest(query, candidates, 0.60)
	if !ok || idx != 0 {
		t.Fatalf("expected a match at threshold 0.60, got ok=%v idx=%d", ok, idx)
	}
	if score < 0.60 {
		t.Errorf("returned score %v below threshold", score)
	}
}

func TestSelectBestFirstWinsTies(t *testing.T) {
	query := NewTokenSet([]string{"value", "play"})
	// Identical token sets score identically; the earlier candidate wins.
	candidates := []TokenSet{
		NewTokenSet([]string{"value", "play", "race"}),
		NewTokenSet([]string{"value", "play", "race"}),
	}

	idx, _, ok := SelectBest(query, candidates, 0.0)
	if !ok || idx != 0 {
		t.Errorf("tie must go to the first candidate, got ok=%v idx=%d", ok, idx)
	}
}

func TestSelectBestZeroThresholdZeroScore(t *testing.T) {
	query := NewTokenSet([]string{"value"})
	candidates := []TokenSet{NewTokenSet([]string{"scratchings"})}

	// A zero score is not strictly below a zero threshold, so the candidate
	// is still returned. Callers that want "some overlap" pass threshold > 0.
	idx, score, ok := SelectBest(query, candidates, 0.0)
	if !ok || idx != 0 || score != 0.0 {
		t.Errorf("got ok=%v idx=%d score=%v, want ok=true idx=0 score=0", ok, idx, score)
	}
}
