package indexing

import (
	"context"

	"github.com/kailas-cloud/intell/internal/domain/page"
)

// Repository stores page documents.
type Repository interface {
	Save(ctx context.Context, doc page.Document) (string, error)
}

// Classifier decides whether text is safe.
type Classifier interface {
	IsSafe(text string) bool
}
