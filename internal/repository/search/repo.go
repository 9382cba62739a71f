package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/intell/internal/db"
	"github.com/kailas-cloud/intell/internal/domain/search/request"
	"github.com/kailas-cloud/intell/internal/domain/search/result"
)

// Query shape constants.
const (
	FragmentSize     = 160
	RelatedTermsSize = 10
	SuggestSize      = 5
)

var searchFields = []string{"title^3", "content"}

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, index string, body []byte) ([]byte, error)
}

// Repo implements usecase/search.Repository over the page index.
type Repo struct {
	store store
	index string
}

// New creates a search repository for the given page index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// Search runs the relevance query for req and returns raw matches and
// significant terms in engine order.
func (r *Repo) Search(ctx context.Context, req request.Request) (result.Candidates, error) {
	body, err := encodeBody(BuildSearchBody(req))
	if err != nil {
		return result.Candidates{}, fmt.Errorf("marshal search body: %w", err)
	}

	raw, err := r.store.Search(ctx, r.index, body)
	if err != nil {
		return result.Candidates{}, fmt.Errorf("search %s: %w", r.index, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return result.Candidates{}, fmt.Errorf("decode search response: %w", err)
	}

	out := result.Candidates{
		Matches:          make([]result.Match, 0, len(resp.Hits.Hits)),
		SignificantTerms: make([]string, 0, len(resp.Aggregations.RelatedTopics.Buckets)),
	}
	for _, h := range resp.Hits.Hits {
		out.Matches = append(out.Matches, result.Match{
			Document:          h.Source.toDocument(),
			ContentHighlights: h.Highlight["content"],
			TitleHighlights:   h.Highlight["title"],
		})
	}
	for _, b := range resp.Aggregations.RelatedTopics.Buckets {
		out.SignificantTerms = append(out.SignificantTerms, bucketKey(b.Key))
	}
	return out, nil
}

// Suggest returns up to SuggestSize distinct titles that phrase-prefix match prefix.
func (r *Repo) Suggest(ctx context.Context, prefix string) ([]string, error) {
	body, err := encodeBody(BuildSuggestBody(prefix))
	if err != nil {
		return nil, fmt.Errorf("marshal suggest body: %w", err)
	}

	raw, err := r.store.Search(ctx, r.index, body)
	if err != nil {
		return nil, fmt.Errorf("suggest %s: %w", r.index, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode suggest response: %w", err)
	}

	titles := make([]string, 0, SuggestSize)
	seen := make(map[string]struct{}, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		t := h.Source.Title
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		titles = append(titles, t)
		if len(titles) == SuggestSize {
			break
		}
	}
	return titles, nil
}

// BuildSearchBody builds the query DSL for a search request. The bare
// relevance query is sent when there are no filters; otherwise it becomes the
// "must" clause of a bool query with the filters as non-scoring clauses.
func BuildSearchBody(req request.Request) any {
	relevance := multiMatchQuery{MultiMatch: multiMatch{
		Query:        req.Query(),
		Fields:       searchFields,
		Type:         "best_fields",
		Operator:     "or",
		Fuzziness:    "AUTO",
		PrefixLength: 1,
	}}

	var query any = relevance
	if filters := db.FilterClauses(req.Filters()); len(filters) > 0 {
		query = boolQuery{Bool: boolClauses{Must: relevance, Filter: filters}}
	}

	fragment := highlightField{FragmentSize: FragmentSize, NumberOfFragments: 1}
	return searchBody{
		Query: query,
		Highlight: highlightSpec{
			Fields:   highlightFields{Content: fragment, Title: fragment},
			PreTags:  []string{"<b>"},
			PostTags: []string{"</b>"},
		},
		From: req.Offset(),
		Size: req.Size(),
		Aggs: relatedAggs{RelatedTopics: significantTextAgg{
			SignificantText: significantText{Field: "content", Size: RelatedTermsSize},
		}},
	}
}

// BuildSuggestBody builds the title phrase-prefix query.
func BuildSuggestBody(prefix string) any {
	return suggestBody{
		Query: phrasePrefixQuery{MatchPhrasePrefix: map[string]phrasePrefix{
			"title": {Query: prefix},
		}},
		Source: []string{"title"},
		Size:   SuggestSize,
	}
}

// encodeBody marshals a request body without HTML escaping, so highlight
// tags reach the engine as literal <b> and </b>.
func encodeBody(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}
