// Package repair backfills documents indexed before images, file_type and
// is_safe were stored.
package repair

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/extract"
)

// DefaultRate is the default number of re-fetches per second.
const DefaultRate = 2

// Summary reports the outcome of a repair pass.
type Summary struct {
	Found     int `json:"found"`
	Refreshed int `json:"refreshed"`
	Degraded  int `json:"degraded"`
	Failed    int `json:"failed"`
}

// Service re-fetches incomplete documents and patches the missing fields.
type Service struct {
	repo      Repository
	fetcher   Fetcher
	extractor Extractor
	safety    Classifier
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// New creates a repair service that re-fetches at most perSecond pages per
// second. perSecond <= 0 selects DefaultRate.
func New(
	repo Repository, f Fetcher, x Extractor, c Classifier, perSecond float64, logger *zap.Logger,
) *Service {
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		fetcher:   f,
		extractor: x,
		safety:    c,
		limiter:   rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:    logger,
	}
}

// Run patches one batch of incomplete documents. A document whose page can
// no longer be fetched or extracted keeps its stored content and gets the
// html/no-images defaults, so it is not picked up again. Update failures are
// counted, never returned.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	refs, err := s.repo.FindIncomplete(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("find incomplete documents: %w", err)
	}

	sum := Summary{Found: len(refs)}
	s.logger.Info("Repair pass started", zap.Int("found", len(refs)))

	for _, ref := range refs {
		if err := s.limiter.Wait(ctx); err != nil {
			return sum, err
		}

		patch, fresh := s.rebuild(ctx, ref)
		log := s.logger.With(zap.String("id", ref.ID), zap.String("url", ref.URL))
		if err := s.repo.Update(ctx, ref.ID, patch); err != nil {
			sum.Failed++
			log.Warn("Failed to update document", zap.Error(err))
			continue
		}
		if fresh {
			sum.Refreshed++
		} else {
			sum.Degraded++
		}
		log.Debug("Document repaired", zap.Bool("refetched", fresh), zap.String("file_type", string(patch.FileType)))
	}

	s.logger.Info("Repair pass finished",
		zap.Int("refreshed", sum.Refreshed),
		zap.Int("degraded", sum.Degraded),
		zap.Int("failed", sum.Failed),
	)
	return sum, nil
}

// rebuild re-extracts ref. fresh is false when the stored content was kept.
func (s *Service) rebuild(ctx context.Context, ref page.Ref) (page.Patch, bool) {
	patch := page.Patch{
		Images:   []page.Image{},
		FileType: page.HTML,
		Content:  ref.Content,
	}
	fresh := false

	if ref.URL != "" {
		if p, err := s.reextract(ctx, ref.URL); err != nil {
			s.logger.Warn("Failed to re-extract", zap.String("url", ref.URL), zap.Error(err))
		} else {
			if p.Images != nil {
				patch.Images = p.Images
			}
			patch.FileType = p.FileType
			patch.Content = p.Content
			fresh = true
		}
	}

	patch.IsSafe = s.safety.IsSafe(patch.Content)
	return patch, fresh
}

func (s *Service) reextract(ctx context.Context, url string) (*extract.Page, error) {
	resp, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.extractor.Extract(url, resp.Body, resp.ContentType)
}
