package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/intell/internal/config"
	"github.com/kailas-cloud/intell/internal/crawl"
	"github.com/kailas-cloud/intell/internal/db/elastic"
	logpkg "github.com/kailas-cloud/intell/internal/logger"
	"github.com/kailas-cloud/intell/internal/metrics"
	pagerepo "github.com/kailas-cloud/intell/internal/repository/page"
)

// env bundles what every subcommand needs.
type env struct {
	cfg    config.Config
	logger *zap.Logger
}

func setup(c *cli.Command) (*env, error) {
	name := c.String("env")
	cfg, err := config.Load(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := logpkg.NewLogger(name, "crawler", cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	metrics.RegisterDomainMetrics()
	return &env{cfg: cfg, logger: logger}, nil
}

func (e *env) fetcher() *crawl.HTTPFetcher {
	return crawl.NewHTTPFetcher(crawl.FetcherConfig{
		ConnectTimeout: time.Duration(e.cfg.Crawler.ConnectTimeoutSec) * time.Second,
		ReadTimeout:    time.Duration(e.cfg.Crawler.ReadTimeoutSec) * time.Second,
		UserAgent:      e.cfg.Crawler.UserAgent,
	})
}

// pages connects straight to elasticsearch. The caller must invoke the
// returned close func.
func (e *env) pages(ctx context.Context) (*pagerepo.Repo, func(), error) {
	es := e.cfg.Elasticsearch
	store, err := elastic.NewStore(elastic.Config{
		Addrs:    es.Addrs,
		Username: es.Username,
		Password: es.Password,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating elasticsearch store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(es.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, nil, err
	}
	return pagerepo.New(store, es.Index), store.Close, nil
}
