// Package textnorm provides the deterministic text normalization shared by
// catalog indexing and query parsing. Both sides must produce byte-identical
// output for the search tiers to match.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// minTokenLen is the length under which query tokens are treated as noise
// words (articles, prepositions) and dropped, unless the token stands alone.
const minTokenLen = 2

// Normalize lowercases text, folds accents and replaces every character that
// is neither letter, digit nor whitespace with a space, then collapses runs
// of whitespace. Empty input yields an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	decomposed := norm.NFKD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))

	lastSpace := true
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Combining diacritical mark left over from decomposition.
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// Tokens normalizes a free-text query and splits it into search tokens.
// Multi-token queries drop noise words of length <= 2; the sole token of a
// single-token query is always kept so short but meaningful queries still
// resolve.
func Tokens(query string) []string {
	fields := strings.Fields(Normalize(query))
	if len(fields) <= 1 {
		return fields
	}

	tokens := fields[:0]
	for _, t := range fields {
		if len([]rune(t)) > minTokenLen {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
