package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/intell/internal/domain"
	"github.com/kailas-cloud/intell/internal/domain/querylog"
	"github.com/kailas-cloud/intell/internal/domain/search/request"
	"github.com/kailas-cloud/intell/internal/domain/search/result"
	"github.com/kailas-cloud/intell/internal/logger"
)

// DefaultLogTimeout bounds a detached query-log write.
const DefaultLogTimeout = 2 * time.Second

// FallbackTrending is served when the query log yields nothing.
var FallbackTrending = []string{"Python", "Intell Search", "Web Crawling", "Elasticsearch", "AI"}

// Service handles search, suggestion and trending reads.
type Service struct {
	repo       Repository
	suggester  Suggester
	trends     TrendSource
	queryLog   QueryLog
	instant    InstantResolver
	now        func() time.Time
	logTimeout time.Duration

	pending sync.WaitGroup
}

// New creates a search service.
func New(
	repo Repository,
	suggester Suggester,
	trends TrendSource,
	queryLog QueryLog,
	instant InstantResolver,
) *Service {
	return &Service{
		repo:       repo,
		suggester:  suggester,
		trends:     trends,
		queryLog:   queryLog,
		instant:    instant,
		now:        time.Now,
		logTimeout: DefaultLogTimeout,
	}
}

// Search logs the query, runs the relevance query and the instant answer
// resolver concurrently, then annotates hits in engine order.
func (s *Service) Search(ctx context.Context, req request.Request) (result.Result, error) {
	s.logQuery(ctx, req.Query())

	var (
		candidates result.Candidates
		instant    *result.InstantAnswer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = s.repo.Search(gctx, req)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrEngineUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		instant = s.instant.Resolve(req.Query())
		return nil
	})
	if err := g.Wait(); err != nil {
		return result.Result{}, err
	}

	hits := make([]result.Hit, 0, len(candidates.Matches))
	for _, m := range candidates.Matches {
		hits = append(hits, toHit(m))
	}
	related := RelatedTopics(candidates.SignificantTerms, req.Query())

	return result.New(req.Query(), req.Offset(), hits, related, instant), nil
}

// Suggest returns up to five distinct titles matching prefix.
func (s *Service) Suggest(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}
	titles, err := s.suggester.Suggest(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEngineUnavailable, err)
	}
	return titles, nil
}

// Trending returns the top recent queries, or FallbackTrending when the log
// is empty or unavailable. It never fails.
func (s *Service) Trending(ctx context.Context) []string {
	terms, err := s.trends.Trending(ctx, s.now())
	if err != nil {
		logger.FromContext(ctx).Warn("Trending query failed, serving fallback", zap.Error(err))
		return fallbackTrending()
	}
	if len(terms) == 0 {
		return fallbackTrending()
	}
	return terms
}

// Wait blocks until detached query-log writes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// logQuery writes a cleaned log entry in the background. Queries that clean
// to fewer than three characters are not logged. Failures are logged only.
func (s *Service) logQuery(ctx context.Context, raw string) {
	entry, ok := querylog.NewEntry(raw, s.now())
	if !ok {
		return
	}
	log := logger.FromContext(ctx)
	bg := context.WithoutCancel(ctx)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		wctx, cancel := context.WithTimeout(bg, s.logTimeout)
		defer cancel()
		if err := s.queryLog.Append(wctx, entry); err != nil {
			log.Warn("Failed to log query", zap.String("query", entry.Query), zap.Error(err))
		}
	}()
}

func fallbackTrending() []string {
	out := make([]string, len(FallbackTrending))
	copy(out, FallbackTrending)
	return out
}
