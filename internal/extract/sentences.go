package extract

import (
	"strings"
	"unicode"
)

// SplitSentences splits evidence text into sentence-level units. Boundaries
// are '.' or '?' followed by whitespace, except after a single capitalized
// letter ("U.S.") or a lowercase-dot-letter pattern ("e.g."). The heuristic
// is approximate: it never discards text and always returns at least one
// element.
func SplitSentences(text string) []string {
	flat := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if flat == "" {
		return []string{flat}
	}

	runes := []rune(flat)
	var sentences []string
	var current strings.Builder

	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])

		if runes[i] != '.' && runes[i] != '?' {
			continue
		}
		if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if runes[i] == '.' && isAbbreviation(runes, i) {
			continue
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	if len(sentences) == 0 {
		return []string{flat}
	}
	return sentences
}

// isAbbreviation reports whether the period at position i terminates an
// abbreviation rather than a sentence.
func isAbbreviation(runes []rune, i int) bool {
	// Single capitalized letter before the period: "U.S." splits at neither dot.
	if i >= 1 && unicode.IsUpper(runes[i-1]) {
		if i == 1 || !unicode.IsLetter(runes[i-2]) {
			return true
		}
	}
	// Lowercase letter, dot, letter before the period: "e.g.", "i.e.".
	if i >= 3 && unicode.IsLetter(runes[i-1]) && runes[i-2] == '.' && unicode.IsLower(runes[i-3]) {
		return true
	}
	return false
}
