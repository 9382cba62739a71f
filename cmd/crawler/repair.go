package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/intell/internal/extract"
	"github.com/kailas-cloud/intell/internal/safety"
	repairuc "github.com/kailas-cloud/intell/internal/usecase/repair"
)

func repairCommand() *cli.Command {
	return &cli.Command{
		Name:  "repair",
		Usage: "Backfill images, file_type and is_safe on stored pages",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Maximum re-fetches per second (default from config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = e.logger.Sync() }()

			pages, closeStore, err := e.pages(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			rate := e.cfg.Repair.RatePerSec
			if v := c.Float("rate"); v > 0 {
				rate = v
			}
			svc := repairuc.New(
				pages,
				e.fetcher(),
				extract.New(extract.WithPDF(e.cfg.Crawler.PDF())),
				safety.New(e.cfg.Safety.Lexicon),
				rate,
				e.logger,
			)

			sum, err := svc.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return printJSON(sum)
		},
	}
}
