package querylog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/intell/internal/db"
	"github.com/kailas-cloud/intell/internal/domain/page"
	domlog "github.com/kailas-cloud/intell/internal/domain/querylog"
	"github.com/kailas-cloud/intell/internal/domain/search/filter"
)

// Trending query shape.
const (
	TrendingWindow = 24 * time.Hour
	TrendingSize   = 5
)

// store is the consumer interface for the query log (ISP).
type store interface {
	Search(ctx context.Context, index string, body []byte) ([]byte, error)
	Index(ctx context.Context, index, id string, body []byte) (string, error)
	CreateIndex(ctx context.Context, name string, mapping []byte) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo is the append-only query log.
type Repo struct {
	store store
	index string
}

// New creates a query log repository over the given index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// EnsureIndex creates the log index with its mapping when it does not exist.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.index)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.index, err)
	}
	if exists {
		return nil
	}
	mapping, err := db.NewMapping().
		TextWithKeyword("query").
		Text("raw_query").
		Double("timestamp").
		Build()
	if err != nil {
		return fmt.Errorf("build mapping: %w", err)
	}
	if err := r.store.CreateIndex(ctx, r.index, mapping); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", r.index, err)
	}
	return nil
}

// Append writes one log entry.
func (r *Repo) Append(ctx context.Context, e domlog.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}
	if _, err := r.store.Index(ctx, r.index, "", data); err != nil {
		return fmt.Errorf("append to %s: %w", r.index, err)
	}
	return nil
}

// Trending returns the most frequent cleaned queries of the trailing window,
// most frequent first.
func (r *Repo) Trending(ctx context.Context, now time.Time) ([]string, error) {
	body, err := BuildTrendingBody(now)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal trending body: %w", err)
	}

	raw, err := r.store.Search(ctx, r.index, data)
	if err != nil {
		return nil, fmt.Errorf("trending %s: %w", r.index, err)
	}

	var resp trendingResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode trending response: %w", err)
	}
	terms := make([]string, 0, len(resp.Aggregations.TrendingQueries.Buckets))
	for _, b := range resp.Aggregations.TrendingQueries.Buckets {
		if b.Key != "" {
			terms = append(terms, b.Key)
		}
	}
	return terms, nil
}

// BuildTrendingBody builds the terms aggregation over entries newer than
// now minus TrendingWindow.
func BuildTrendingBody(now time.Time) (any, error) {
	since := page.UnixSeconds(now.Add(-TrendingWindow))
	rng, err := filter.NewRangeFilter(nil, &since, nil, nil)
	if err != nil {
		return nil, err
	}
	cond, err := filter.NewRange("timestamp", rng)
	if err != nil {
		return nil, err
	}
	expr, err := filter.NewExpression(cond)
	if err != nil {
		return nil, err
	}
	return trendingBody{
		Query: db.FilterClauses(expr)[0],
		Aggs: trendingAggs{TrendingQueries: termsAgg{
			Terms: termsSpec{Field: "query.keyword", Size: TrendingSize},
		}},
		Size: 0,
	}, nil
}

type trendingBody struct {
	Query any          `json:"query"`
	Aggs  trendingAggs `json:"aggs"`
	Size  int          `json:"size"`
}

type trendingAggs struct {
	TrendingQueries termsAgg `json:"trending_queries"`
}

type termsAgg struct {
	Terms termsSpec `json:"terms"`
}

type termsSpec struct {
	Field string `json:"field"`
	Size  int    `json:"size"`
}

type trendingResponse struct {
	Aggregations struct {
		TrendingQueries struct {
			Buckets []struct {
				Key      string `json:"key"`
				DocCount int64  `json:"doc_count"`
			} `json:"buckets"`
		} `json:"trending_queries"`
	} `json:"aggregations"`
}
