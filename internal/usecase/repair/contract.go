package repair

import (
	"context"

	"github.com/kailas-cloud/intell/internal/crawl"
	"github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/extract"
)

// Repository finds and patches incomplete page documents.
type Repository interface {
	FindIncomplete(ctx context.Context) ([]page.Ref, error)
	Update(ctx context.Context, id string, p page.Patch) error
}

// Fetcher retrieves a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*crawl.Response, error)
}

// Extractor turns a fetched body into page content.
type Extractor interface {
	Extract(pageURL string, body []byte, contentType string) (*extract.Page, error)
}

// Classifier decides whether text is safe.
type Classifier interface {
	IsSafe(text string) bool
}
