package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show the number of indexed pages",
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			pages, closeStore, err := e.pages(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := pages.Count(ctx)
			if err != nil {
				return fmt.Errorf("counting pages: %w", err)
			}
			fmt.Printf("%s: %d pages\n", pages.Index(), n)
			return nil
		},
	}
}
