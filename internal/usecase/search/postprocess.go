package search

import (
	"strings"

	"github.com/kailas-cloud/intell/internal/domain/search/result"
	"github.com/kailas-cloud/intell/internal/domain/text"
	"github.com/kailas-cloud/intell/internal/extract"
)

// Post-processing limits.
const (
	SnippetLength    = 160
	MaxRelatedTopics = 5
)

func toHit(m result.Match) result.Hit {
	d := m.Document
	title := d.Title
	if title == "" {
		title = result.Untitled
	}
	return result.Hit{
		Title:      title,
		URL:        d.URL,
		DisplayURL: extract.DisplayHost(d.URL),
		Snippet:    Snippet(m.ContentHighlights, d.Content),
		FaviconURL: d.FaviconURL,
		Images:     d.Images,
		IsSafe:     d.IsSafe,
		FileType:   d.FileType,
	}
}

// Snippet returns the first highlighted fragment, or the first
// SnippetLength characters of content with "..." appended when cut.
func Snippet(highlights []string, content string) string {
	if len(highlights) > 0 {
		return highlights[0]
	}
	cut := text.Truncate(content, SnippetLength)
	if len(cut) < len(content) {
		return cut + "..."
	}
	return cut
}

// RelatedTopics filters significant terms down to at most MaxRelatedTopics
// entries, keeping engine order. Stop-words, terms shorter than three
// characters, terms equal to a query token and duplicates are dropped.
func RelatedTopics(terms []string, rawQuery string) []string {
	queryTokens := make(map[string]struct{})
	for _, t := range text.Tokens(rawQuery) {
		queryTokens[t] = struct{}{}
	}
	for _, t := range strings.Fields(strings.ToLower(rawQuery)) {
		queryTokens[t] = struct{}{}
	}

	out := make([]string, 0, MaxRelatedTopics)
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if len(out) == MaxRelatedTopics {
			break
		}
		if text.Length(term) < text.MinTermLength || text.IsStopWord(term) {
			continue
		}
		if _, inQuery := queryTokens[strings.ToLower(term)]; inQuery {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}
