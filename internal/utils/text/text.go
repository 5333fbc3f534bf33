// Package text provides utilities for text processing used by the relevance
// scorer: rune-aware counting, prompt truncation, and whitespace collapsing
// for scraped HTML fragments.
package text

import "strings"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// It correctly handles multi-byte characters by counting runes instead of bytes,
// which keeps prompt budgeting consistent across scoring providers.
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate returns text cut to at most maxRunes runes, appending the marker
// when a cut happened. Used to keep conference descriptions inside the prompt
// budget without splitting multi-byte characters.
//
// Examples:
//
//	Truncate("abcdef", 4, "…")  // returns "abcd…"
//	Truncate("abc", 10, "…")    // returns "abc"
func Truncate(text string, maxRunes int, marker string) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes]) + marker
}

// CollapseSpace trims the string and collapses internal runs of whitespace
// (including newlines from HTML extraction) into single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
