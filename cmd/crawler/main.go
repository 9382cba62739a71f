package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/intell/internal/config"
	"github.com/kailas-cloud/intell/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    "crawler",
		Usage:   "Crawl sites into the intell index and maintain stored pages",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "Configuration environment (config/<env>.yaml)",
				Value: config.GetEnv(),
			},
		},
		Commands: []*cli.Command{
			crawlCommand(),
			repairCommand(),
			statsCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
