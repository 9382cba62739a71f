package result

import "github.com/kailas-cloud/intell/internal/domain/page"

// Untitled is the hit title used when a stored document has none.
const Untitled = "No Title"

// Match is an engine hit before post-processing, in relevance order.
type Match struct {
	Document page.Document
	// ContentHighlights holds highlighted content fragments, best first.
	ContentHighlights []string
	// TitleHighlights holds highlighted title fragments, best first.
	TitleHighlights []string
}

// Candidates is the raw engine answer for one search request.
type Candidates struct {
	Matches []Match
	// SignificantTerms are aggregation bucket keys in engine significance order.
	SignificantTerms []string
}
