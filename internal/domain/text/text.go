// Package text holds the small string utilities shared by extraction,
// query-log cleaning and related-topic filtering.
package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinTermLength is the minimum length of a cleaned query or a related topic.
const MinTermLength = 3

var stopWords = map[string]struct{}{
	"a": {}, "the": {}, "is": {}, "in": {}, "to": {}, "of": {}, "and": {}, "for": {},
	"on": {}, "at": {}, "by": {}, "an": {}, "be": {}, "this": {}, "that": {},
}

// wordRegex matches runs of word characters, Unicode-aware.
var wordRegex = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// IsStopWord reports whether the lowercased token is a stop-word.
func IsStopWord(token string) bool {
	_, ok := stopWords[strings.ToLower(token)]
	return ok
}

// Tokens lowercases s and splits it on word boundaries.
func Tokens(s string) []string {
	return wordRegex.FindAllString(strings.ToLower(s), -1)
}

// CollapseSpace replaces every whitespace run with a single space and trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to at most n characters (runes).
func Truncate(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Length returns the character (rune) count of s.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
