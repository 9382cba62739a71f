package indexing

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/intell/internal/domain"
	"github.com/kailas-cloud/intell/internal/domain/page"
)

// Service accepts pages pushed by trusted crawlers.
type Service struct {
	repo   Repository
	safety Classifier
	now    func() time.Time
}

// New creates an indexing service.
func New(repo Repository, safety Classifier) *Service {
	return &Service{repo: repo, safety: safety, now: time.Now}
}

// Index normalizes doc and stores it. The safety flag and timestamp are
// always computed here; caller-supplied values are ignored.
func (s *Service) Index(ctx context.Context, doc page.Document) (string, error) {
	doc.IsSafe = s.safety.IsSafe(doc.Content)
	doc.Timestamp = page.UnixSeconds(s.now())

	doc, err := page.New(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	id, err := s.repo.Save(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIndexing, err)
	}
	return id, nil
}
