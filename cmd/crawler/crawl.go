package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/intell/internal/crawl"
	"github.com/kailas-cloud/intell/internal/extract"
	"github.com/kailas-cloud/intell/internal/safety"
	intell "github.com/kailas-cloud/intell/pkg/sdk"
)

func crawlCommand() *cli.Command {
	return &cli.Command{
		Name:      "crawl",
		Usage:     "Breadth-first crawl from seed URLs and index every page",
		ArgsUsage: "[seed URL...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "Maximum link depth from a seed (default from config)",
			},
			&cli.IntFlag{
				Name:  "max-pages",
				Usage: "Maximum number of URLs visited (default from config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = e.logger.Sync() }()
			return runCrawl(ctx, c, e)
		},
	}
}

func runCrawl(ctx context.Context, c *cli.Command, e *env) error {
	cc := e.cfg.Crawler

	seeds := c.Args().Slice()
	if len(seeds) == 0 {
		seeds = cc.Seeds
	}
	if len(seeds) == 0 {
		return fmt.Errorf("no seed urls: pass them as arguments or set crawler.seeds")
	}

	cfg := crawl.Config{MaxDepth: cc.MaxDepth, MaxPages: cc.MaxPages, Delay: cc.Delay()}
	if v := c.Int("max-depth"); v > 0 {
		cfg.MaxDepth = v
	}
	if v := c.Int("max-pages"); v > 0 {
		cfg.MaxPages = v
	}

	client, err := intell.New(cc.IndexEndpoint,
		intell.WithAPIKey(cc.APIKey),
		intell.WithUserAgent(cc.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("creating index client: %w", err)
	}

	ctrl := crawl.NewController(
		cfg,
		e.fetcher(),
		extract.New(extract.WithPDF(cc.PDF())),
		safety.New(e.cfg.Safety.Lexicon),
		&apiGateway{client: client},
		e.logger,
	)

	sum, err := ctrl.Run(ctx, seeds)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		e.logger.Warn("Crawl interrupted", zap.Int("remaining", sum.Remaining))
	}
	return printJSON(sum)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
