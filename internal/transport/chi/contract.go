package chi

import (
	"context"

	"github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/domain/search/request"
	"github.com/kailas-cloud/intell/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/intell/internal/usecase/health"
)

// Searcher serves the read endpoints.
type Searcher interface {
	Search(ctx context.Context, req request.Request) (result.Result, error)
	Suggest(ctx context.Context, prefix string) ([]string, error)
	Trending(ctx context.Context) []string
}

// Indexer stores pages pushed by crawlers.
type Indexer interface {
	Index(ctx context.Context, doc page.Document) (string, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
