package gtfsdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/schedule"
)

var _ schedule.Store = (*Client)(nil)

// queryRows runs query and hands every row to scan.
func (c *Client) queryRows(ctx context.Context, what, query string, scan func(*sql.Rows) error) (err error) {
	rows, err := c.DB.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("querying %s: %w", what, err)
	}
	defer logging.HandleDeferredError(&err, rows.Close, c.logger, "close_"+what+"_rows")

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scanning %s: %w", what, err)
		}
	}
	return rows.Err()
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("20060102", s, time.UTC)
}

func (c *Client) Calendars(ctx context.Context) ([]models.ServiceCalendar, error) {
	var out []models.ServiceCalendar
	err := c.queryRows(ctx, "calendar", `
		SELECT service_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday,
			start_date, end_date
		FROM calendar ORDER BY service_id`,
		func(rows *sql.Rows) error {
			var (
				cal        models.ServiceCalendar
				days       [7]int64
				start, end string
			)
			if err := rows.Scan(&cal.ServiceID,
				&days[time.Monday], &days[time.Tuesday], &days[time.Wednesday], &days[time.Thursday],
				&days[time.Friday], &days[time.Saturday], &days[time.Sunday],
				&start, &end); err != nil {
				return err
			}
			for i, d := range days {
				cal.Weekdays[i] = d == 1
			}
			var err error
			if cal.StartDate, err = parseDate(start); err != nil {
				return err
			}
			if cal.EndDate, err = parseDate(end); err != nil {
				return err
			}
			out = append(out, cal)
			return nil
		})
	return out, err
}

func (c *Client) CalendarExceptions(ctx context.Context) ([]models.CalendarException, error) {
	var out []models.CalendarException
	err := c.queryRows(ctx, "calendar_dates", `
		SELECT service_id, date, exception_type FROM calendar_dates ORDER BY date, service_id`,
		func(rows *sql.Rows) error {
			var (
				e    models.CalendarException
				date string
			)
			if err := rows.Scan(&e.ServiceID, &date, &e.Type); err != nil {
				return err
			}
			var err error
			if e.Date, err = parseDate(date); err != nil {
				return err
			}
			out = append(out, e)
			return nil
		})
	return out, err
}

func (c *Client) Routes(ctx context.Context) ([]models.Route, error) {
	var out []models.Route
	err := c.queryRows(ctx, "routes", `
		SELECT route_id, agency_id, route_type FROM routes ORDER BY route_id`,
		func(rows *sql.Rows) error {
			var r models.Route
			if err := rows.Scan(&r.ID, &r.AgencyID, &r.Type); err != nil {
				return err
			}
			out = append(out, r)
			return nil
		})
	return out, err
}

func (c *Client) Trips(ctx context.Context) ([]models.Trip, error) {
	var out []models.Trip
	err := c.queryRows(ctx, "trips", `
		SELECT trip_id, route_id, service_id FROM trips ORDER BY trip_id`,
		func(rows *sql.Rows) error {
			var t models.Trip
			if err := rows.Scan(&t.ID, &t.RouteID, &t.ServiceID); err != nil {
				return err
			}
			out = append(out, t)
			return nil
		})
	return out, err
}

func (c *Client) StopTimes(ctx context.Context) ([]models.ScheduleElement, error) {
	return c.scheduleElements(ctx, "stop_times", `
		SELECT trip_id, stop_sequence, stop_id, arrival_time, departure_time
		FROM stop_times ORDER BY trip_id, stop_sequence`)
}

func (c *Client) RunScheduleElements(ctx context.Context) ([]models.ScheduleElement, error) {
	return c.scheduleElements(ctx, "run_schedule_elements", `
		SELECT schedule_id, sequence, stop_id, arrival_offset, departure_offset
		FROM run_schedule_elements ORDER BY schedule_id, sequence`)
}

func (c *Client) scheduleElements(ctx context.Context, what, query string) ([]models.ScheduleElement, error) {
	var out []models.ScheduleElement
	err := c.queryRows(ctx, what, query, func(rows *sql.Rows) error {
		var e models.ScheduleElement
		if err := rows.Scan(&e.OwnerID, &e.Sequence, &e.StopID, &e.Arrival, &e.Departure); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

func (c *Client) Frequencies(ctx context.Context) ([]models.FrequencyWindow, error) {
	var out []models.FrequencyWindow
	err := c.queryRows(ctx, "frequencies", `
		SELECT trip_id, start_time, end_time, headway_secs, exact_times
		FROM frequencies ORDER BY trip_id, start_time`,
		func(rows *sql.Rows) error {
			var (
				f     models.FrequencyWindow
				exact int64
			)
			if err := rows.Scan(&f.TripID, &f.Start, &f.End, &f.Headway, &exact); err != nil {
				return err
			}
			f.ExactTimes = exact == 1
			out = append(out, f)
			return nil
		})
	return out, err
}

func (c *Client) Runs(ctx context.Context) ([]models.Run, error) {
	var out []models.Run
	err := c.queryRows(ctx, "runs", `
		SELECT run_id, calendar_id, schedule_id, route_id, start_minutes FROM runs ORDER BY run_id`,
		func(rows *sql.Rows) error {
			var r models.Run
			if err := rows.Scan(&r.ID, &r.CalendarID, &r.ScheduleID, &r.RouteID, &r.StartMinutes); err != nil {
				return err
			}
			out = append(out, r)
			return nil
		})
	return out, err
}
