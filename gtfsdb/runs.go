package gtfsdb

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/models"
)

// ImportRuns replaces the stored runs and run schedules with the content of
// two CSV tables from the public transit data model.
//
// runs columns: run_id, calendar_id, schedule_id, start_run, and optionally
// route_id. start_run is minutes since midnight.
//
// run schedule columns: schedule_id, sequence, stop_id, arrival, departure.
// arrival and departure are minutes since the start of the run and may be
// fractional; they are stored as whole seconds.
func (c *Client) ImportRuns(ctx context.Context, runsCSV, schedulesCSV io.Reader) error {
	runs, err := parseRuns(runsCSV)
	if err != nil {
		return fmt.Errorf("parsing runs: %w", err)
	}
	elements, err := parseRunSchedules(schedulesCSV)
	if err != nil {
		return fmt.Errorf("parsing run schedules: %w", err)
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "import_runs")

	for _, table := range []string{"runs", "run_schedule_elements"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err := insertRuns(ctx, tx, runs); err != nil {
		return err
	}
	if err := insertRunScheduleElements(ctx, tx, elements); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	logging.LogOperation(c.logger, "runs_imported",
		slog.Int("runs", len(runs)),
		slog.Int("run_schedule_elements", len(elements)))
	return nil
}

// bomAwareReader strips a UTF byte order mark and decodes UTF-16 input.
func bomAwareReader(r io.Reader) *csv.Reader {
	transformer := unicode.BOMOverride(encoding.Nop.NewDecoder())
	reader := csv.NewReader(transform.NewReader(r, transformer))
	reader.TrimLeadingSpace = true
	return reader
}

// table is a CSV file with its header resolved to column indexes.
type table struct {
	reader  *csv.Reader
	columns map[string]int
	line    int
}

func newTable(r io.Reader, required ...string) (*table, error) {
	reader := bomAwareReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("CSV file contains no rows")
	}
	if err != nil {
		return nil, err
	}

	t := &table{reader: reader, columns: make(map[string]int, len(header)), line: 1}
	for i, name := range header {
		t.columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns %s", strings.Join(missing, ", "))
	}
	return t, nil
}

// next returns the next record, or io.EOF.
func (t *table) next() ([]string, error) {
	record, err := t.reader.Read()
	t.line++
	return record, err
}

func (t *table) get(record []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (t *table) minutes(record []string, column string) (float64, error) {
	raw := t.get(record, column)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid %s %q", t.line, column, raw)
	}
	return v, nil
}

func parseRuns(r io.Reader) ([]models.Run, error) {
	t, err := newTable(r, "run_id", "calendar_id", "schedule_id", "start_run")
	if err != nil {
		return nil, err
	}

	var runs []models.Run
	for {
		record, err := t.next()
		if errors.Is(err, io.EOF) {
			return runs, nil
		}
		if err != nil {
			return nil, err
		}
		start, err := t.minutes(record, "start_run")
		if err != nil {
			return nil, err
		}
		run := models.Run{
			ID:           t.get(record, "run_id"),
			CalendarID:   t.get(record, "calendar_id"),
			ScheduleID:   t.get(record, "schedule_id"),
			RouteID:      t.get(record, "route_id"),
			StartMinutes: int(math.Round(start)),
		}
		if err := run.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", t.line, err)
		}
		runs = append(runs, run)
	}
}

func parseRunSchedules(r io.Reader) ([]models.ScheduleElement, error) {
	t, err := newTable(r, "schedule_id", "sequence", "stop_id", "arrival", "departure")
	if err != nil {
		return nil, err
	}

	var elements []models.ScheduleElement
	for {
		record, err := t.next()
		if errors.Is(err, io.EOF) {
			return elements, nil
		}
		if err != nil {
			return nil, err
		}
		seq, err := strconv.Atoi(t.get(record, "sequence"))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid sequence %q", t.line, t.get(record, "sequence"))
		}
		arrival, err := t.minutes(record, "arrival")
		if err != nil {
			return nil, err
		}
		departure, err := t.minutes(record, "departure")
		if err != nil {
			return nil, err
		}
		elements = append(elements, models.ScheduleElement{
			OwnerID:   t.get(record, "schedule_id"),
			Sequence:  seq,
			StopID:    t.get(record, "stop_id"),
			Arrival:   int(math.Round(arrival * 60)),
			Departure: int(math.Round(departure * 60)),
		})
	}
}
