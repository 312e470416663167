package matching

import (
	"math"
	"testing"
)

const scoreTolerance = 1e-9

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{
			name: "identical_sets",
			a:    []string{"best", "value", "play"},
			b:    []string{"best", "value", "play"},
			want: 1.0,
		},
		{
			name: "disjoint_sets",
			a:    []string{"horse", "4"},
			b:    []string{"value", "play"},
			want: 0.0,
		},
		{
			name: "partial_overlap",
			a:    []string{"best", "value", "play"},
			b:    []string{"what", "best", "value", "play", "race"},
			want: 3.0 / 5.0,
		},
		{
			name: "both_empty",
			a:    nil,
			b:    nil,
			want: 0.0,
		},
		{
			name: "one_empty",
			a:    nil,
			b:    []string{"value"},
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Jaccard(NewTokenSet(tt.a), NewTokenSet(tt.b))
			if math.Abs(got-tt.want) > scoreTolerance {
				t.Errorf("Jaccard() = %v, want %v", got, tt.want)
			}
			if got < 0.0 || got > 1.0 {
				t.Errorf("Jaccard() = %v out of [0,1]", got)
			}
		})
	}
}

func TestScoreSubsetBoost(t *testing.T) {
	query := NewTokenSet([]string{"best", "value", "play"})
	stored := NewTokenSet([]string{"what", "best", "value", "play", "race"})

	base := Jaccard(query, stored)
	got := Score(query, stored)
	want := 0.6 + (1.0-0.6)*0.10 // 0.64

	if math.Abs(got-want) > scoreTolerance {
		t.Errorf("Score() = %v, want %v", got, want)
	}
	if got < base {
		t.Errorf("boost decreased score: %v < base %v", got, base)
	}
}

func TestScoreNoBoostWithoutSubset(t *testing.T) {
	query := NewTokenSet([]string{"best", "value", "scratch"})
	stored := NewTokenSet([]string{"what", "best", "value", "play", "race"})

	if got, want := Score(query, stored), Jaccard(query, stored); math.Abs(got-want) > scoreTolerance {
		t.Errorf("Score() = %v, want plain Jaccard %v", got, want)
	}
}

func TestScoreClampsAtOne(t *testing.T) {
	ts := NewTokenSet([]string{"value", "play"})
	if got := Score(ts, ts); got != 1.0 {
		t.Errorf("Score(identical) = %v, want 1.0", got)
	}
}

func TestScoreEmptyQueryNeverBoosted(t *testing.T) {
	empty := NewTokenSet(nil)
	stored := NewTokenSet([]string{"value", "play"})

	if got := Score(empty, stored); got != 0.0 {
		t.Errorf("Score(empty, stored) = %v, want 0.0", got)
	}
	if got := Score(empty, empty); got != 0.0 {
		t.Errorf("Score(empty, empty) = %v, want 0.0", got)
	}
}
