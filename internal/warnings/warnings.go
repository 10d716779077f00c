// Package warnings holds the non-fatal data-quality diagnostics reported while
// loading a schedule and running analyses.
package warnings

import (
	"fmt"
	"strings"
)

// Kind names a family of warnings for aggregation.
type Kind string

const (
	KindNonOverlappingCalendars Kind = "non_overlapping_calendars"
	KindZeroHeadway             Kind = "zero_headway"
	KindDuplicateTripID         Kind = "duplicate_trip_id"
	KindOrphanRoute             Kind = "orphan_route"
	KindNoServiceFound          Kind = "no_service_found"
	KindOrphanRunSchedule       Kind = "orphan_run_schedule"
	KindInvalidCalendar         Kind = "invalid_calendar"
)

type Warning interface {
	Kind() Kind
	// Subject is a short example identifier used when summarising.
	Subject() string
	Error() string
}

// CalendarPair is an ordered pair of service ids (A, B) where A starts after B ends.
type CalendarPair struct {
	Later   string
	Earlier string
}

// MaxReportedCalendarPairs caps the pairs carried by NonOverlappingCalendars.
const MaxReportedCalendarPairs = 10

// NonOverlappingCalendars is raised for weekday analyses when calendars active
// on the same weekday never overlap in time, so a weekday answer mixes services
// that never run together.
type NonOverlappingCalendars struct {
	Day       string
	Pairs     []CalendarPair
	Truncated bool
}

func (w NonOverlappingCalendars) Kind() Kind      { return KindNonOverlappingCalendars }
func (w NonOverlappingCalendars) Subject() string { return w.Day }

func (w NonOverlappingCalendars) Error() string {
	parts := make([]string, 0, len(w.Pairs))
	for _, p := range w.Pairs {
		parts = append(parts, fmt.Sprintf("%s/%s", p.Later, p.Earlier))
	}
	msg := fmt.Sprintf("calendars active on %s do not overlap in time: %s", w.Day, strings.Join(parts, ", "))
	if w.Truncated {
		msg += fmt.Sprintf(" (only the first %d pairs are listed)", MaxReportedCalendarPairs)
	}
	return msg
}

type ZeroHeadway struct {
	TripID  string
	Start   int
	Headway int
}

func (w ZeroHeadway) Kind() Kind      { return KindZeroHeadway }
func (w ZeroHeadway) Subject() string { return w.TripID }

func (w ZeroHeadway) Error() string {
	return fmt.Sprintf("skipping frequency window of trip %q starting at %d: headway %d is not positive", w.TripID, w.Start, w.Headway)
}

type DuplicateTripID struct {
	TripID string
}

func (w DuplicateTripID) Kind() Kind      { return KindDuplicateTripID }
func (w DuplicateTripID) Subject() string { return w.TripID }

func (w DuplicateTripID) Error() string {
	return fmt.Sprintf("trip id %q appears more than once; keeping the first row", w.TripID)
}

type OrphanRoute struct {
	TripID  string
	RouteID string
}

func (w OrphanRoute) Kind() Kind      { return KindOrphanRoute }
func (w OrphanRoute) Subject() string { return w.TripID }

func (w OrphanRoute) Error() string {
	return fmt.Sprintf("trip %q references unknown route %q", w.TripID, w.RouteID)
}

type NoServiceFound struct {
	Day  string
	Mode string
}

func (w NoServiceFound) Kind() Kind      { return KindNoServiceFound }
func (w NoServiceFound) Subject() string { return w.Day }

func (w NoServiceFound) Error() string {
	return fmt.Sprintf("no service runs on %s (%s calendars)", w.Day, w.Mode)
}

type OrphanRunSchedule struct {
	RunID      string
	ScheduleID string
}

func (w OrphanRunSchedule) Kind() Kind      { return KindOrphanRunSchedule }
func (w OrphanRunSchedule) Subject() string { return w.RunID }

func (w OrphanRunSchedule) Error() string {
	return fmt.Sprintf("run %q references schedule %q which has no elements", w.RunID, w.ScheduleID)
}

// InvalidCalendar is a calendar row that was dropped while indexing.
type InvalidCalendar struct {
	ServiceID string
	Reason    string
}

func (w InvalidCalendar) Kind() Kind      { return KindInvalidCalendar }
func (w InvalidCalendar) Subject() string { return w.ServiceID }

func (w InvalidCalendar) Error() string {
	return fmt.Sprintf("calendar %q skipped: %s", w.ServiceID, w.Reason)
}
