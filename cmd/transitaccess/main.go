package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "transitaccess",
		Usage:     "count scheduled transit service and attach trips to solved paths",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Value: "transitaccess.db",
				Usage: "SQLite database holding the imported schedule (or TRANSITACCESS_DB_PATH)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "optional .env file with TRANSITACCESS_* variables",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log import and analysis steps",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "log record format on stderr: text or json",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable coloured output",
			},
		},
		Before: before,
		Commands: []*cli.Command{
			importCommand(),
			servicesCommand(),
			countCommand(),
			timelapseCommand(),
			enrichCommand(),
		},
	}
}
