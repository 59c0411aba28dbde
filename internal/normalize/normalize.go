// Package normalize canonicalizes raw vendor and location text before any
// comparison. Every function here is pure; Normalize is idempotent.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	punctRe      = regexp.MustCompile(`[^A-Z0-9 ]+`)
	// Legal suffixes carry no disambiguating signal for matching.
	suffixRe     = regexp.MustCompile(`\b(INC|LLC|CORP|CO|LTD|COMPANY)\b`)
	bareSuffixRe = regexp.MustCompile(`(?i)^(INC|LLC|CORP|CO|LTD)\.?$`)
)

// Clean removes newlines and collapses runs of whitespace without otherwise
// altering the text. OCR output routinely splits names across lines.
func Clean(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Normalize folds text into the form all similarity comparisons run on:
// cleaned, uppercased, punctuation and legal suffixes stripped. Empty output
// means "no value" and is never a match candidate.
func Normalize(s string) string {
	s = strings.ToUpper(Clean(s))
	// Drop periods first so "L.L.C." collapses to "LLC" before the suffix pass.
	s = strings.ReplaceAll(s, ".", "")
	s = punctRe.ReplaceAllString(s, " ")
	s = suffixRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Tokens splits a string into its normalized words.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// Invalid screens structurally unusable vendor text before it reaches the
// direct matcher. Fuzzy-matching a two-character OCR fragment against a
// thousand canonical names produces confident nonsense, so these route
// straight to the location stage instead. Returns the screen reason.
func Invalid(s string) (string, bool) {
	s = Clean(s)
	if s == "" {
		return "empty", true
	}
	if len([]rune(s)) < 5 {
		return "too_short", true
	}
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 3 {
		return "too_few_letters", true
	}
	// Leading lowercase almost always means the OCR clipped the line.
	if first := []rune(s)[0]; unicode.IsLower(first) {
		return "ocr_truncation", true
	}
	if bareSuffixRe.MatchString(s) {
		return "bare_suffix", true
	}
	return "", false
}
