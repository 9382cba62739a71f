// Package crawl runs a single-host breadth-first crawl that indexes every
// fetched page through a Gateway.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/intell/internal/domain"
	"github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/extract"
	"github.com/kailas-cloud/intell/internal/metrics"
)

// Traversal defaults.
const (
	DefaultMaxDepth = 2
	DefaultMaxPages = 300
	DefaultDelay    = time.Second
)

// Config bounds a crawl run.
type Config struct {
	MaxDepth int
	MaxPages int
	// Delay is the politeness pause after every fetched task. Zero disables it.
	Delay time.Duration
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID     string `json:"run_id"`
	Visited   int    `json:"visited"`
	Indexed   int    `json:"indexed"`
	Failed    int    `json:"failed"`
	Remaining int    `json:"remaining"`
}

// Controller drives the BFS traversal. A Controller runs one crawl at a time.
type Controller struct {
	cfg       Config
	fetcher   Fetcher
	extractor Extractor
	safety    Classifier
	gateway   Gateway
	logger    *zap.Logger
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewController creates a crawl controller.
func NewController(
	cfg Config, f Fetcher, x Extractor, c Classifier, g Gateway, logger *zap.Logger,
) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		cfg:       cfg,
		fetcher:   f,
		extractor: x,
		safety:    c,
		gateway:   g,
		logger:    logger,
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// Run crawls from seeds until the frontier drains or MaxPages URLs have been
// visited. Per-page failures are counted, never returned. A cancelled context
// stops the run and returns the partial summary with ctx.Err().
func (c *Controller) Run(ctx context.Context, seeds []string) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	log := c.logger.With(zap.String("run_id", sum.RunID))

	var frontier Frontier
	for _, s := range seeds {
		canon, err := extract.Canonicalize(s)
		if err != nil {
			log.Warn("skipping invalid seed", zap.String("seed", s), zap.Error(err))
			continue
		}
		frontier.Push(Task{URL: canon, Depth: 0})
	}
	if frontier.Len() == 0 {
		return sum, fmt.Errorf("%w: no valid seed urls", domain.ErrInvalidRequest)
	}

	log.Info("crawl started",
		zap.Int("seeds", frontier.Len()),
		zap.Int("max_depth", c.cfg.MaxDepth),
		zap.Int("max_pages", c.cfg.MaxPages),
	)

	err := c.traverse(ctx, &frontier, &sum, log)
	log.Info("crawl finished",
		zap.Int("visited", sum.Visited),
		zap.Int("indexed", sum.Indexed),
		zap.Int("failed", sum.Failed),
		zap.Int("remaining", sum.Remaining),
		zap.Error(err),
	)
	return sum, err
}

// traverse drains the frontier under the page budget, updating sum in place.
func (c *Controller) traverse(ctx context.Context, frontier *Frontier, sum *Summary, log *zap.Logger) error {
	visited := NewVisitedSet()
	for frontier.Len() > 0 && visited.Len() < c.cfg.MaxPages {
		if err := ctx.Err(); err != nil {
			sum.Remaining = frontier.Len()
			return err
		}

		task, _ := frontier.Pop()
		if !visited.MarkIfNotVisited(task.URL) {
			continue
		}
		sum.Visited++

		tlog := log.With(zap.String("url", task.URL), zap.Int("depth", task.Depth))
		if task.Depth > c.cfg.MaxDepth {
			metrics.CrawlPagesTotal.WithLabelValues("skipped_depth").Inc()
			tlog.Debug("depth exceeded, not fetching")
			continue
		}

		links, err := c.process(ctx, task)
		if err != nil {
			sum.Failed++
			metrics.CrawlPagesTotal.WithLabelValues("failed").Inc()
			tlog.Warn("page failed", zap.Bool("timeout", isTimeout(err)), zap.Error(err))
		} else {
			sum.Indexed++
			metrics.CrawlPagesTotal.WithLabelValues("indexed").Inc()
			tlog.Info("page indexed", zap.Int("links", len(links)))

			if task.Depth < c.cfg.MaxDepth {
				for _, link := range links {
					if visited.Len() >= c.cfg.MaxPages {
						break
					}
					if !visited.Contains(link) {
						frontier.Push(Task{URL: link, Depth: task.Depth + 1})
					}
				}
			}
		}

		if err := c.sleep(ctx, c.cfg.Delay); err != nil {
			sum.Remaining = frontier.Len()
			return err
		}
	}

	sum.Remaining = frontier.Len()
	return nil
}

// process fetches, extracts, classifies and indexes one page, returning its
// same-site outlinks.
func (c *Controller) process(ctx context.Context, task Task) ([]string, error) {
	resp, err := c.fetcher.Fetch(ctx, task.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	p, err := c.extractor.Extract(task.URL, resp.Body, resp.ContentType)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	doc, err := page.New(page.Document{
		URL:             task.URL,
		Title:           p.Title,
		Content:         p.Content,
		FaviconURL:      p.FaviconURL,
		PreviewImageURL: p.PreviewImageURL,
		Images:          p.Images,
		FileType:        p.FileType,
		IsSafe:          c.safety.IsSafe(p.Content),
		Timestamp:       page.UnixSeconds(c.now()),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}

	if err := c.gateway.Index(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrIndexing) {
			return nil, fmt.Errorf("index: %w", err)
		}
		return nil, fmt.Errorf("index: %w: %w", domain.ErrIndexing, err)
	}

	return sameSiteLinks(task.URL, p.Links), nil
}

// sameSiteLinks keeps canonical links sharing pageURL's scheme and host.
func sameSiteLinks(pageURL string, links []string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(links))
	for _, l := range links {
		canon, err := extract.Canonicalize(l)
		if err != nil {
			continue
		}
		u, err := url.Parse(canon)
		if err != nil || !extract.SameSite(base, u) {
			continue
		}
		out = append(out, canon)
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
