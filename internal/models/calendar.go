package models

import (
	"fmt"
	"time"
)

// ServiceCalendar is a regular weekly service pattern valid between two dates.
type ServiceCalendar struct {
	ServiceID string
	// Weekdays is indexed by time.Weekday.
	Weekdays  [7]bool
	StartDate time.Time
	EndDate   time.Time
}

// RunsOn reports whether the weekday flag for w is set.
func (c ServiceCalendar) RunsOn(w time.Weekday) bool {
	return c.Weekdays[w]
}

// Covers reports whether date lies inside the calendar's inclusive date range.
func (c ServiceCalendar) Covers(date time.Time) bool {
	day := truncateDate(date)
	return !day.Before(truncateDate(c.StartDate)) && !day.After(truncateDate(c.EndDate))
}

// Validate enforces start <= end.
func (c ServiceCalendar) Validate() error {
	if c.ServiceID == "" {
		return fmt.Errorf("calendar has empty service id")
	}
	if truncateDate(c.EndDate).Before(truncateDate(c.StartDate)) {
		return fmt.Errorf("calendar %s ends (%s) before it starts (%s)",
			c.ServiceID, c.EndDate.Format("20060102"), c.StartDate.Format("20060102"))
	}
	return nil
}

// ExceptionType uses the GTFS calendar_dates codes.
type ExceptionType int

const (
	ServiceAdded   ExceptionType = 1
	ServiceRemoved ExceptionType = 2
)

func (e ExceptionType) String() string {
	switch e {
	case ServiceAdded:
		return "Added"
	case ServiceRemoved:
		return "Removed"
	}
	return fmt.Sprintf("ExceptionType(%d)", int(e))
}

// CalendarException adds or removes a service on a single date.
type CalendarException struct {
	ServiceID string
	Date      time.Time
	Type      ExceptionType
}

// DateKey formats a date the way exceptions are indexed.
func DateKey(t time.Time) string {
	return t.Format("20060102")
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
