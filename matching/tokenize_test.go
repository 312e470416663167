package matching

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases_and_strips_punctuation",
			in:   "Who is the BEST value play?",
			want: "who is the best value play",
		},
		{
			name: "collapses_whitespace",
			in:   "  best \t value \n play  ",
			want: "best value play",
		},
		{
			name: "punctuation_only",
			in:   "?!...,;",
			want: "",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "keeps_digits",
			in:   "Horse 4 in race 7!",
			want: "horse 4 in race 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			// Normalization must be idempotent
			if again := Normalize(got); again != got {
				t.Errorf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "drops_stop_words",
			in:   "what is the best value play in this race",
			want: []string{"what", "best", "value", "play", "race"},
		},
		{
			name: "all_stop_words",
			in:   "the a an",
			want: []string{},
		},
		{
			name: "empty",
			in:   "",
			want: []string{},
		},
		{
			name: "no_stop_words",
			in:   "horse 4",
			want: []string{"horse", "4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewTokenSetCollapsesDuplicates(t *testing.T) {
	ts := NewTokenSet([]string{"best", "value", "best", "play", "value"})
	if len(ts) != 3 {
		t.Errorf("expected 3 unique tokens, got %d", len(ts))
	}
	for _, tok := range []string{"best", "value", "play"} {
		if !ts.Contains(tok) {
			t.Errorf("expected set to contain %q", tok)
		}
	}
}

func TestSubsetOf(t *testing.T) {
	query := NewTokenSet([]string{"best", "value", "play"})
	stored := NewTokenSet([]string{"what", "best", "value", "play", "race"})

	if !query.SubsetOf(stored) {
		t.Error("query should be a subset of stored")
	}
	if stored.SubsetOf(query) {
		t.Error("stored should not be a subset of query")
	}
	if !NewTokenSet(nil).SubsetOf(query) {
		t.Error("empty set is a subset of anything")
	}
}
