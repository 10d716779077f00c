package gtfsdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jamespfennell/gtfs"

	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

// ImportSummary describes one call to ImportGTFS.
type ImportSummary struct {
	Hash     string
	Source   string
	Skipped  bool
	Duration time.Duration
	Counts   map[string]int
	Warnings []warnings.Warning
}

// ImportMetadata is the record of the last successful GTFS import.
type ImportMetadata struct {
	FileHash   string
	FileSource string
	ImportTime int64
}

// feedTables are replaced wholesale by every GTFS import.
var feedTables = []string{"calendar", "calendar_dates", "routes", "trips", "stop_times", "frequencies"}

// ImportGTFS parses a GTFS zip and replaces the stored feed with it. The import
// is skipped when the SHA-256 of b matches the last imported file.
func (c *Client) ImportGTFS(ctx context.Context, b []byte, source string) (ImportSummary, error) {
	sum := sha256.Sum256(b)
	summary := ImportSummary{Hash: hex.EncodeToString(sum[:]), Source: source}

	previous, err := c.ImportMetadata(ctx)
	switch {
	case err == nil && previous.FileHash == summary.Hash:
		summary.Skipped = true
		logging.LogOperation(c.logger, "gtfs_import_skipped",
			slog.String("source", source),
			slog.String("hash", summary.Hash))
		return summary, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return summary, err
	}

	startTime := time.Now()

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return summary, fmt.Errorf("parsing GTFS from %s: %w", source, err)
	}

	rows := rowsFromStatic(staticData)
	summary.Warnings = rows.warnings
	logging.LogWarnings(c.logger, "import_gtfs", rows.warnings)

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "import_gtfs")

	for _, table := range feedTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return summary, fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err := insertFeedRows(ctx, tx, rows); err != nil {
		return summary, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO import_metadata (id, file_hash, file_source, import_time)
		VALUES (1, ?, ?, ?)`, summary.Hash, source, time.Now().Unix()); err != nil {
		return summary, fmt.Errorf("storing import metadata: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("error committing transaction: %w", err)
	}

	summary.Counts = rows.counts()
	summary.Duration = time.Since(startTime)
	c.importRuntime = summary.Duration
	attrs := []slog.Attr{slog.String("source", source), slog.Duration("duration", summary.Duration)}
	for table, n := range summary.Counts {
		attrs = append(attrs, slog.Int(table, n))
	}
	logging.LogOperation(c.logger, "gtfs_data_imported", attrs...)

	return summary, nil
}

// ImportMetadata returns the last import record, or sql.ErrNoRows when the
// database has never been imported into.
func (c *Client) ImportMetadata(ctx context.Context) (ImportMetadata, error) {
	var m ImportMetadata
	err := c.DB.QueryRowContext(ctx,
		"SELECT file_hash, file_source, import_time FROM import_metadata WHERE id = 1").
		Scan(&m.FileHash, &m.FileSource, &m.ImportTime)
	return m, err
}

// feedRows is a parsed feed flattened into table rows.
type feedRows struct {
	calendars   []models.ServiceCalendar
	exceptions  []models.CalendarException
	routes      []models.Route
	trips       []models.Trip
	stopTimes   []models.ScheduleElement
	frequencies []models.FrequencyWindow
	warnings    []warnings.Warning
}

func (r feedRows) counts() map[string]int {
	return map[string]int{
		"calendar":       len(r.calendars),
		"calendar_dates": len(r.exceptions),
		"routes":         len(r.routes),
		"trips":          len(r.trips),
		"stop_times":     len(r.stopTimes),
		"frequencies":    len(r.frequencies),
	}
}

func rowsFromStatic(staticData *gtfs.Static) feedRows {
	var rows feedRows

	for _, s := range staticData.Services {
		rows.calendars = append(rows.calendars, models.ServiceCalendar{
			ServiceID: s.Id,
			Weekdays: [7]bool{
				time.Sunday:    s.Sunday,
				time.Monday:    s.Monday,
				time.Tuesday:   s.Tuesday,
				time.Wednesday: s.Wednesday,
				time.Thursday:  s.Thursday,
				time.Friday:    s.Friday,
				time.Saturday:  s.Saturday,
			},
			StartDate: s.StartDate,
			EndDate:   s.EndDate,
		})
		for _, d := range s.AddedDates {
			rows.exceptions = append(rows.exceptions, models.CalendarException{ServiceID: s.Id, Date: d, Type: models.ServiceAdded})
		}
		for _, d := range s.RemovedDates {
			rows.exceptions = append(rows.exceptions, models.CalendarException{ServiceID: s.Id, Date: d, Type: models.ServiceRemoved})
		}
	}

	for _, r := range staticData.Routes {
		route := models.Route{ID: r.Id, Type: models.RouteType(r.Type)}
		if r.Agency != nil {
			route.AgencyID = r.Agency.Id
		}
		rows.routes = append(rows.routes, route)
	}

	seen := make(map[string]bool, len(staticData.Trips))
	for _, t := range staticData.Trips {
		if seen[t.ID] {
			rows.warnings = append(rows.warnings, warnings.DuplicateTripID{TripID: t.ID})
			continue
		}
		seen[t.ID] = true

		trip := models.Trip{ID: t.ID}
		if t.Route != nil {
			trip.RouteID = t.Route.Id
		}
		if t.Service != nil {
			trip.ServiceID = t.Service.Id
		}
		rows.trips = append(rows.trips, trip)

		for _, st := range t.StopTimes {
			if st.Stop == nil {
				continue
			}
			rows.stopTimes = append(rows.stopTimes, models.ScheduleElement{
				OwnerID:   t.ID,
				Sequence:  int(st.StopSequence),
				StopID:    st.Stop.Id,
				Arrival:   int(st.ArrivalTime / time.Second),
				Departure: int(st.DepartureTime / time.Second),
			})
		}
		for _, f := range t.Frequencies {
			rows.frequencies = append(rows.frequencies, models.FrequencyWindow{
				TripID:     t.ID,
				Start:      int(f.StartTime / time.Second),
				End:        int(f.EndTime / time.Second),
				Headway:    int(f.Headway / time.Second),
				ExactTimes: f.ExactTimes == gtfs.ScheduleBased,
			})
		}
	}

	return rows
}
