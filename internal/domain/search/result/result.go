package result

import "github.com/kailas-cloud/intell/internal/domain/page"

// Instant answer kinds.
const (
	AnswerTime = "time"
	AnswerMath = "math"
)

// Hit is a single ranked search hit.
type Hit struct {
	Title      string
	URL        string
	DisplayURL string
	Snippet    string
	FaviconURL string
	Images     []page.Image
	IsSafe     bool
	FileType   page.FileType
}

// InstantAnswer is a directly computed answer that bypasses the index.
type InstantAnswer struct {
	Type   string
	Answer string
	Label  string
	// Expression echoes the evaluated query for math answers.
	Expression string
}

// Result is one page of search results.
type Result struct {
	query         string
	offset        int
	hits          []Hit
	relatedTopics []string
	instant       *InstantAnswer
}

// New creates a search result. Nil slices are normalized to empty ones.
func New(query string, offset int, hits []Hit, relatedTopics []string, instant *InstantAnswer) Result {
	if hits == nil {
		hits = []Hit{}
	}
	if relatedTopics == nil {
		relatedTopics = []string{}
	}
	return Result{
		query: query, offset: offset, hits: hits,
		relatedTopics: relatedTopics, instant: instant,
	}
}

// Query returns the raw query.
func (r *Result) Query() string { return r.query }

// Offset returns the pagination offset.
func (r *Result) Offset() int { return r.offset }

// Total returns the number of hits on this page.
func (r *Result) Total() int { return len(r.hits) }

// Hits returns hits in engine relevance order.
func (r *Result) Hits() []Hit { return r.hits }

// RelatedTopics returns the derived related terms.
func (r *Result) RelatedTopics() []string { return r.relatedTopics }

// InstantAnswer returns the instant answer, or nil.
func (r *Result) InstantAnswer() *InstantAnswer { return r.instant }
