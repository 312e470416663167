// Package matching implements the question-matching core: text
// normalization, stop-word tokenization and token-set similarity scoring.
// Everything here is pure; storage and serving concerns live elsewhere.
package matching

import (
	"strings"
	"unicode"
)

// stopWords are dropped during tokenization. Closed set; scoring depends on
// it staying stable across stored and queried questions.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "in": {},
	"this": {}, "for": {}, "of": {}, "to": {}, "and": {}, "or": {},
}

// Normalize lowercases text, removes every rune that is not a letter, digit
// or whitespace, and collapses whitespace runs to single spaces. It is total
// and idempotent; empty input yields an empty string.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize splits already-normalized text on whitespace and drops stop
// words. An empty result means the input had no matchable content; callers
// must treat that as an invalid query, not as "match nothing".
func Tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// TokenSet is a set of unique tokens. Scoring is set-based: duplicates and
// order in the originating token slice are irrelevant.
type TokenSet map[string]struct{}

// NewTokenSet builds a TokenSet from a token slice, collapsing duplicates.
func NewTokenSet(tokens []string) TokenSet {
	ts := make(TokenSet, len(tokens))
	for _, t := range tokens {
		if t != "" {
			ts[t] = struct{}{}
		}
	}
	return ts
}

// Contains reports whether token is in the set.
func (ts TokenSet) Contains(token string) bool {
	_, ok := ts[token]
	return ok
}

// SubsetOf reports whether every token in ts is also in other.
func (ts TokenSet) SubsetOf(other TokenSet) bool {
	if len(ts) > len(other) {
		return false
	}
	for t := range ts {
		if _, ok := other[t]; !ok {
			return false
		}
	}
	return true
}
