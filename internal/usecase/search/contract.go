package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/intell/internal/domain/querylog"
	"github.com/kailas-cloud/intell/internal/domain/search/request"
	"github.com/kailas-cloud/intell/internal/domain/search/result"
)

// Repository runs relevance queries against the page index.
type Repository interface {
	Search(ctx context.Context, req request.Request) (result.Candidates, error)
}

// Suggester returns title suggestions for a prefix.
type Suggester interface {
	Suggest(ctx context.Context, prefix string) ([]string, error)
}

// TrendSource returns the most frequent recent queries.
type TrendSource interface {
	Trending(ctx context.Context, now time.Time) ([]string, error)
}

// QueryLog persists cleaned queries for trend aggregation.
type QueryLog interface {
	Append(ctx context.Context, e querylog.Entry) error
}

// InstantResolver computes direct answers. A nil answer means none applies.
type InstantResolver interface {
	Resolve(rawQuery string) *result.InstantAnswer
}
