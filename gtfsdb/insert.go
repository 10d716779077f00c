package gtfsdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gtfs-tools/transitaccess/internal/models"
)

// insertBatch runs one prepared statement per row inside tx.
func insertBatch(ctx context.Context, tx *sql.Tx, what, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error preparing %s statement: %w", what, err)
	}
	defer stmt.Close() // nolint:errcheck

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("error inserting %s: %w", what, err)
		}
	}
	return nil
}

func insertFeedRows(ctx context.Context, tx *sql.Tx, rows feedRows) error {
	if err := insertCalendars(ctx, tx, rows.calendars); err != nil {
		return err
	}
	if err := insertCalendarExceptions(ctx, tx, rows.exceptions); err != nil {
		return err
	}
	if err := insertRoutes(ctx, tx, rows.routes); err != nil {
		return err
	}
	if err := insertTrips(ctx, tx, rows.trips); err != nil {
		return err
	}
	if err := insertStopTimes(ctx, tx, rows.stopTimes); err != nil {
		return err
	}
	return insertFrequencies(ctx, tx, rows.frequencies)
}

func insertCalendars(ctx context.Context, tx *sql.Tx, calendars []models.ServiceCalendar) error {
	return insertBatch(ctx, tx, "calendar", `
		INSERT OR REPLACE INTO calendar (
			service_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday,
			start_date, end_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(calendars), func(i int) []any {
			c := calendars[i]
			w := c.Weekdays
			return []any{
				c.ServiceID,
				boolToInt(w[1]), boolToInt(w[2]), boolToInt(w[3]), boolToInt(w[4]),
				boolToInt(w[5]), boolToInt(w[6]), boolToInt(w[0]),
				models.DateKey(c.StartDate), models.DateKey(c.EndDate),
			}
		})
}

func insertCalendarExceptions(ctx context.Context, tx *sql.Tx, exceptions []models.CalendarException) error {
	return insertBatch(ctx, tx, "calendar_dates", `
		INSERT OR REPLACE INTO calendar_dates (service_id, date, exception_type) VALUES (?, ?, ?)`,
		len(exceptions), func(i int) []any {
			e := exceptions[i]
			return []any{e.ServiceID, models.DateKey(e.Date), int(e.Type)}
		})
}

func insertRoutes(ctx context.Context, tx *sql.Tx, routes []models.Route) error {
	return insertBatch(ctx, tx, "route", `
		INSERT OR REPLACE INTO routes (route_id, agency_id, route_type) VALUES (?, ?, ?)`,
		len(routes), func(i int) []any {
			r := routes[i]
			return []any{r.ID, r.AgencyID, int(r.Type)}
		})
}

func insertTrips(ctx context.Context, tx *sql.Tx, trips []models.Trip) error {
	return insertBatch(ctx, tx, "trip", `
		INSERT INTO trips (trip_id, route_id, service_id) VALUES (?, ?, ?)`,
		len(trips), func(i int) []any {
			t := trips[i]
			return []any{t.ID, t.RouteID, t.ServiceID}
		})
}

func insertStopTimes(ctx context.Context, tx *sql.Tx, stopTimes []models.ScheduleElement) error {
	return insertBatch(ctx, tx, "stop_time", `
		INSERT OR REPLACE INTO stop_times (
			trip_id, stop_sequence, stop_id, arrival_time, departure_time
		) VALUES (?, ?, ?, ?, ?)`,
		len(stopTimes), func(i int) []any {
			st := stopTimes[i]
			return []any{st.OwnerID, st.Sequence, st.StopID, st.Arrival, st.Departure}
		})
}

func insertFrequencies(ctx context.Context, tx *sql.Tx, frequencies []models.FrequencyWindow) error {
	return insertBatch(ctx, tx, "frequency", `
		INSERT OR REPLACE INTO frequencies (
			trip_id, start_time, end_time, headway_secs, exact_times
		) VALUES (?, ?, ?, ?, ?)`,
		len(frequencies), func(i int) []any {
			f := frequencies[i]
			return []any{f.TripID, f.Start, f.End, f.Headway, boolToInt(f.ExactTimes)}
		})
}

func insertRuns(ctx context.Context, tx *sql.Tx, runs []models.Run) error {
	return insertBatch(ctx, tx, "run", `
		INSERT OR REPLACE INTO runs (
			run_id, calendar_id, schedule_id, route_id, start_minutes
		) VALUES (?, ?, ?, ?, ?)`,
		len(runs), func(i int) []any {
			r := runs[i]
			return []any{r.ID, r.CalendarID, r.ScheduleID, r.RouteID, r.StartMinutes}
		})
}

func insertRunScheduleElements(ctx context.Context, tx *sql.Tx, elements []models.ScheduleElement) error {
	return insertBatch(ctx, tx, "run_schedule_element", `
		INSERT OR REPLACE INTO run_schedule_elements (
			schedule_id, sequence, stop_id, arrival_offset, departure_offset
		) VALUES (?, ?, ?, ?, ?)`,
		len(elements), func(i int) []any {
			e := elements[i]
			return []any{e.OwnerID, e.Sequence, e.StopID, e.Arrival, e.Departure}
		})
}
