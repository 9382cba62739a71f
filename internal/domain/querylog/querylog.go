package querylog

import (
	"strings"
	"time"

	"github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/domain/text"
)

// Entry is an append-only record of a user query, used for trend aggregation.
type Entry struct {
	Query     string  `json:"query"`
	RawQuery  string  `json:"raw_query"`
	Timestamp float64 `json:"timestamp"`
}

// Clean lowercases the query, keeps word tokens, drops stop-words and returns
// the rejoined tokens. ok is false when fewer than three characters remain.
func Clean(raw string) (cleaned string, ok bool) {
	tokens := text.Tokens(raw)
	kept := tokens[:0]
	for _, t := range tokens {
		if !text.IsStopWord(t) {
			kept = append(kept, t)
		}
	}
	cleaned = strings.TrimSpace(strings.Join(kept, " "))
	if text.Length(cleaned) < text.MinTermLength {
		return "", false
	}
	return cleaned, true
}

// NewEntry builds a log entry for raw. ok is false when the query cleans to nothing useful.
func NewEntry(raw string, now time.Time) (Entry, bool) {
	cleaned, ok := Clean(raw)
	if !ok {
		return Entry{}, false
	}
	return Entry{Query: cleaned, RawQuery: raw, Timestamp: page.UnixSeconds(now)}, true
}
