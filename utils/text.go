package utils

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes s and drops nonspacing marks (accents, tildes, etc.).
// transform chains keep internal buffers, so a fresh one is built per call.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize folds text for accent and case insensitive comparison.
// Example: "Pájaro" -> "pajaro"
// Lowercasing can introduce new combining marks (e.g. "İ"), so marks are
// stripped again afterwards to keep Normalize idempotent.
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	folded := stripMarks(strings.ToLower(stripMarks(text)))
	return strings.TrimSpace(folded)
}

// NormalizeValue normalizes the string form of any value
func NormalizeValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return Normalize(s)
	}
	return Normalize(fmt.Sprint(v))
}
