package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/gtfs-tools/transitaccess/gtfsdb"
	"github.com/gtfs-tools/transitaccess/internal/appconf"
	"github.com/gtfs-tools/transitaccess/internal/batch"
	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/schedule"
	"github.com/gtfs-tools/transitaccess/internal/traversal"
	"github.com/gtfs-tools/transitaccess/internal/tripcount"
	"github.com/gtfs-tools/transitaccess/internal/utils"
)

func before(ctx *cli.Context) error {
	if err := appconf.LoadDotEnv(ctx.String("env-file")); err != nil {
		return fmt.Errorf("loading %s: %w", ctx.String("env-file"), err)
	}
	if ctx.Bool("no-color") {
		color.NoColor = true
	}
	return nil
}

// dbPath prefers an explicit --db, then TRANSITACCESS_DB_PATH (which may come
// from the .env file loaded in before), then the flag default.
func dbPath(ctx *cli.Context) string {
	if ctx.IsSet("db") {
		return ctx.String("db")
	}
	if v := os.Getenv("TRANSITACCESS_DB_PATH"); v != "" {
		return v
	}
	return ctx.String("db")
}

func newLogger(ctx *cli.Context) *slog.Logger {
	level := slog.LevelWarn
	if ctx.Bool("verbose") {
		level = slog.LevelDebug
	}
	return logging.NewLogger(ctx.App.ErrWriter, ctx.String("log-format"), level)
}

func openClient(ctx *cli.Context, logger *slog.Logger) (*gtfsdb.Client, error) {
	config := gtfsdb.NewConfig(dbPath(ctx), appconf.Development, ctx.Bool("verbose")).WithLogger(logger)
	client, err := gtfsdb.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", config.DBPath, err)
	}
	return client, nil
}

// openFeed loads the imported schedule into memory. The database is closed
// before returning.
func openFeed(ctx *cli.Context) (*schedule.Feed, *slog.Logger, error) {
	logger := newLogger(ctx)
	client, err := openClient(ctx, logger)
	if err != nil {
		return nil, nil, err
	}
	defer logging.SafeCloseWithLogging(client, logger, "close_database")

	feed, err := schedule.LoadFeed(ctx.Context, client)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	logging.LogWarnings(logger, "load_feed", feed.Warnings())
	return feed, logger, nil
}

func dayFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "day",
			Usage:    "analysis day: YYYY-MM-DD or a weekday name",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "mode",
			Value: "weekday",
			Usage: "calendar mode: weekday or date",
		},
	}
}

func parseDay(ctx *cli.Context) (models.DayToken, models.CalendarMode, error) {
	if err := utils.ValidateDay(ctx.String("day")); err != nil {
		return models.DayToken{}, 0, err
	}
	day, err := models.ParseDayToken(ctx.String("day"))
	if err != nil {
		return models.DayToken{}, 0, err
	}
	mode, err := models.ParseCalendarMode(ctx.String("mode"))
	if err != nil {
		return models.DayToken{}, 0, err
	}
	return day, mode, nil
}

func windowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "start",
			Value: "00:00",
			Usage: "window start, HH:MM[:SS]",
		},
		&cli.StringFlag{
			Name:  "end",
			Value: "24:00",
			Usage: "window end, HH:MM[:SS]; may pass midnight",
		},
		&cli.StringFlag{
			Name:  "field",
			Value: "departure",
			Usage: "scheduled time that must fall in the window: departure or arrival",
		},
		&cli.StringFlag{
			Name:  "kind",
			Value: "stop",
			Usage: "elements counted when no --stop is given: stop or segment",
		},
		&cli.StringSliceFlag{
			Name:  "stop",
			Usage: "restrict the count to these stop IDs",
		},
	}
}

// parseCountOptions builds the trip count options shared by count and
// timelapse. The window is validated by the caller.
func parseCountOptions(ctx *cli.Context) (tripcount.Options, error) {
	day, mode, err := parseDay(ctx)
	if err != nil {
		return tripcount.Options{}, err
	}
	start, err := utils.ParseClock(ctx.String("start"))
	if err != nil {
		return tripcount.Options{}, err
	}
	end, err := utils.ParseClock(ctx.String("end"))
	if err != nil {
		return tripcount.Options{}, err
	}

	opts := tripcount.Options{
		Day:          day,
		CalendarMode: mode,
		Window:       models.TimeWindow{Start: start, End: end},
	}
	switch ctx.String("field") {
	case "departure":
		opts.Field = models.DepartureTime
	case "arrival":
		opts.Field = models.ArrivalTime
	default:
		return tripcount.Options{}, fmt.Errorf("unknown time field %q, use departure or arrival", ctx.String("field"))
	}
	if err := opts.Kind.UnmarshalText([]byte(ctx.String("kind"))); err != nil {
		return tripcount.Options{}, err
	}
	for _, stopID := range ctx.StringSlice("stop") {
		el, err := models.NewStopElement(stopID)
		if err != nil {
			return tripcount.Options{}, err
		}
		opts.Elements = append(opts.Elements, el)
	}
	return opts, nil
}

// checkElements rejects requested elements the schedule never visits.
func checkElements(feed *schedule.Feed, elements []models.ElementID) error {
	for _, el := range elements {
		if !feed.HasElement(el) {
			return fmt.Errorf("%s is not served by the schedule", el)
		}
	}
	return nil
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "import a GTFS zip and optional run CSV files into the database",
		ArgsUsage: "[gtfs.zip]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "runs",
				Usage: "runs CSV of the public transit data model",
			},
			&cli.StringFlag{
				Name:  "run-schedules",
				Usage: "run schedule elements CSV",
			},
		},
		Action: func(ctx *cli.Context) error {
			runsPath, schedulesPath := ctx.String("runs"), ctx.String("run-schedules")
			if (runsPath == "") != (schedulesPath == "") {
				return fmt.Errorf("--runs and --run-schedules must be given together")
			}
			if ctx.Args().Len() == 0 && runsPath == "" {
				return fmt.Errorf("a path to the GTFS zip was not provided")
			}

			logger := newLogger(ctx)
			client, err := openClient(ctx, logger)
			if err != nil {
				return err
			}
			defer logging.SafeCloseWithLogging(client, logger, "close_database")

			out := ctx.App.Writer
			if path := ctx.Args().First(); path != "" {
				summary, err := client.ImportFromFile(ctx.Context, path)
				if err != nil {
					return fmt.Errorf("failed to import %s: %w", path, err)
				}
				printImportSummary(out, summary)
			}
			if runsPath != "" {
				if err := client.ImportRunsFromFiles(ctx.Context, runsPath, schedulesPath); err != nil {
					return fmt.Errorf("failed to import runs: %w", err)
				}
				fmt.Fprintf(out, "Imported runs from %s\n", color.CyanString(runsPath))
			}
			return nil
		},
	}
}

func printImportSummary(out io.Writer, summary gtfsdb.ImportSummary) {
	tc := color.New(color.FgCyan)
	vc := color.New(color.FgMagenta)
	if summary.Skipped {
		fmt.Fprintf(out, "Skipped %s  Hash %s (unchanged)\n", tc.Sprint(summary.Source), vc.Sprint(summary.Hash))
		return
	}
	fmt.Fprintf(out, "Imported %s  Hash %s  Duration %s\n",
		tc.Sprint(summary.Source), vc.Sprint(summary.Hash), summary.Duration.Round(time.Millisecond))

	tables := make([]string, 0, len(summary.Counts))
	for table := range summary.Counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(out, "  %-14s %s\n", table, tc.Sprint(summary.Counts[table]))
	}
	printWarnings(out, summary.Warnings)
}

func servicesCommand() *cli.Command {
	return &cli.Command{
		Name:  "services",
		Usage: "list the services active on a day",
		Flags: dayFlags(),
		Action: func(ctx *cli.Context) error {
			day, mode, err := parseDay(ctx)
			if err != nil {
				return err
			}
			feed, _, err := openFeed(ctx)
			if err != nil {
				return err
			}
			services, ws, err := feed.Resolver().Resolve(day, mode)
			if err != nil {
				return err
			}

			out := ctx.App.Writer
			ids := services.IDs()
			fmt.Fprintf(out, "%d services active on %s (%s):\n", len(ids), color.CyanString(day.String()), mode)
			for _, id := range ids {
				fmt.Fprintf(out, "- %s\n", color.GreenString(id))
			}
			printWarnings(out, ws)
			return nil
		},
	}
}

func countCommand() *cli.Command {
	flags := append(dayFlags(), windowFlags()...)
	flags = append(flags,
		&cli.BoolFlag{
			Name:    "occurrences",
			Aliases: []string{"o"},
			Usage:   "print every counted trip",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print trip count entries as JSON",
		},
	)
	return &cli.Command{
		Name:  "count",
		Usage: "count the scheduled trips at stops or segments during a time window",
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			opts, err := parseCountOptions(ctx)
			if err != nil {
				return err
			}
			if err := utils.ValidateWindow(opts.Window.Start, opts.Window.End); err != nil {
				return err
			}
			feed, _, err := openFeed(ctx)
			if err != nil {
				return err
			}
			if err := checkElements(feed, opts.Elements); err != nil {
				return err
			}
			result, err := tripcount.Count(feed, opts)
			if err != nil {
				return err
			}

			out := ctx.App.Writer
			if ctx.Bool("json") {
				entries := make([]models.TripCountEntry, 0, len(result.Elements))
				for _, el := range result.Elements {
					entries = append(entries, countEntry(result, el, ctx.Bool("occurrences")))
				}
				return writeJSON(out, entries)
			}
			fmt.Fprintf(out, "Trips %s %s-%s on %s:\n", result.Field,
				utils.FormatClock(result.Window.Start), utils.FormatClock(result.Window.End), opts.Day)
			for _, el := range result.Elements {
				fmt.Fprintf(out, "- %s\n", formatCount(result, el, ctx.Bool("occurrences"), 2))
			}
			printWarnings(out, result.Diagnostics)
			return nil
		},
	}
}

func timelapseCommand() *cli.Command {
	flags := append(dayFlags(), windowFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:  "width",
			Value: "01:00",
			Usage: "length of each window, HH:MM[:SS]",
		},
		&cli.StringFlag{
			Name:  "step",
			Value: "01:00",
			Usage: "distance between window starts, HH:MM[:SS]",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "windows counted concurrently; zero uses every CPU",
		},
	)
	return &cli.Command{
		Name:  "timelapse",
		Usage: "count trips over a series of sliding windows",
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			base, err := parseCountOptions(ctx)
			if err != nil {
				return err
			}
			if err := utils.ValidateWindow(base.Window.Start, base.Window.End); err != nil {
				return err
			}
			width, err := utils.ParseClock(ctx.String("width"))
			if err != nil {
				return err
			}
			step, err := utils.ParseClock(ctx.String("step"))
			if err != nil {
				return err
			}
			windows, err := tripcount.Slices(base.Window.Start, base.Window.End, width, step)
			if err != nil {
				return err
			}
			if len(windows) == 0 {
				return fmt.Errorf("no %s window fits between %s and %s", ctx.String("width"),
					utils.FormatClock(base.Window.Start), utils.FormatClock(base.Window.End))
			}

			feed, logger, err := openFeed(ctx)
			if err != nil {
				return err
			}
			if err := checkElements(feed, base.Elements); err != nil {
				return err
			}
			results, err := tripcount.CountSlices(ctx.Context, feed, base, windows, batch.Options{
				Workers: ctx.Int("workers"),
				Logger:  logger,
			})
			if err != nil {
				return err
			}

			out := ctx.App.Writer
			tc := color.New(color.FgCyan)
			for _, result := range results {
				fmt.Fprintf(out, "%s-%s\n",
					tc.Sprint(utils.FormatClock(result.Window.Start)), tc.Sprint(utils.FormatClock(result.Window.End)))
				for _, el := range result.Elements {
					fmt.Fprintf(out, "  %s\n", formatCount(result, el, false, 4))
				}
			}
			if len(results) > 0 {
				printWarnings(out, results[0].Diagnostics)
			}
			return nil
		},
	}
}

func enrichCommand() *cli.Command {
	return &cli.Command{
		Name:      "enrich",
		Usage:     "attach scheduled trips to the transit edges of a solved path",
		ArgsUsage: "edges.json",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "anchor",
				Usage:    "RFC 3339 departure time of the path, or its arrival time in the end time modes",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "mode",
				Value: "start_time",
				Usage: "path time mode: start_time, end_time_forward or end_time_reverse",
			},
			&cli.StringFlag{
				Name:  "calendar-mode",
				Value: "weekday",
				Usage: "calendar mode: weekday or date",
			},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.Args().Len() == 0 {
				return fmt.Errorf("a path to the edges JSON file was not provided")
			}
			path := ctx.Args().First()
			b, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", path, err)
			}
			var edges []models.TraversalEdge
			if err := json.Unmarshal(b, &edges); err != nil {
				return fmt.Errorf("failed to parse edges in %s: %w", path, err)
			}
			for i, e := range edges {
				if !e.IsTransit() {
					continue
				}
				if err := e.Element.Validate(); err != nil {
					return fmt.Errorf("edge %d: %w", i, err)
				}
			}

			anchor, err := time.Parse(time.RFC3339, ctx.String("anchor"))
			if err != nil {
				return fmt.Errorf("invalid anchor %q, use RFC 3339", ctx.String("anchor"))
			}
			mode, err := traversal.ParseMode(ctx.String("mode"))
			if err != nil {
				return err
			}
			calendarMode, err := models.ParseCalendarMode(ctx.String("calendar-mode"))
			if err != nil {
				return err
			}
			feed, logger, err := openFeed(ctx)
			if err != nil {
				return err
			}

			result, err := traversal.NewEnricher(feed, traversal.Options{
				Anchor:       anchor,
				Mode:         mode,
				CalendarMode: calendarMode,
				Logger:       logger,
			}).Enrich(edges)
			if err != nil {
				return err
			}

			diagnostics := make([]string, 0, len(result.Diagnostics))
			for _, w := range result.Diagnostics {
				diagnostics = append(diagnostics, w.Error())
			}
			return writeJSON(ctx.App.Writer, models.EnrichTraversalEntry{
				AnalysisID:  result.AnalysisID,
				Edges:       edges,
				Enriched:    result.Enriched,
				Unmatched:   result.Unmatched,
				Ambiguous:   result.Ambiguous,
				Diagnostics: diagnostics,
			})
		},
	}
}
