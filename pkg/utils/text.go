// Package utils provides shared utilities for text, math, and logging.
package utils

import "strings"

// NormalizeText lower-cases s, trims surrounding whitespace, and collapses
// internal whitespace runs to single spaces. Texts differing only by case or
// whitespace normalize to the same string.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Tokenize splits s into lower-cased whitespace-delimited tokens.
func Tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// TokenSet returns the set of distinct tokens in s. Indexing a missing token
// yields false.
func TokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Tokenize(s) {
		set[tok] = true
	}
	return set
}

// ContainsAny reports whether any of terms occurs as a substring of text.
// Matching is case-insensitive.
func ContainsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if term != "" && strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
