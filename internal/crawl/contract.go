package crawl

import (
	"context"

	"github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/extract"
)

// Fetcher retrieves a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Extractor turns a fetched body into page content.
type Extractor interface {
	Extract(pageURL string, body []byte, contentType string) (*extract.Page, error)
}

// Classifier flags unsafe content.
type Classifier interface {
	IsSafe(text string) bool
}

// Gateway durably indexes a document.
type Gateway interface {
	Index(ctx context.Context, doc page.Document) error
}
