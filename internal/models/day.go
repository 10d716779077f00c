package models

import (
	"fmt"
	"strings"
	"time"
)

// SecondsPerDay is the length of a service day used for day shifting.
const SecondsPerDay = 86400

// DayType says which service day an occurrence belongs to, relative to the analysis day.
type DayType int

const (
	Today DayType = iota
	Yesterday
	Tomorrow
)

func (d DayType) String() string {
	switch d {
	case Yesterday:
		return "Yesterday"
	case Tomorrow:
		return "Tomorrow"
	default:
		return "Today"
	}
}

// Shift is the offset added to a scheduled time of this day type to express it
// relative to the analysis day's midnight.
func (d DayType) Shift() int {
	switch d {
	case Yesterday:
		return -SecondsPerDay
	case Tomorrow:
		return SecondsPerDay
	default:
		return 0
	}
}

// MarshalText renders the day type by name in JSON payloads.
func (d DayType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// CalendarMode selects how service calendars are interpreted.
type CalendarMode int

const (
	// GenericWeekday uses weekday flags only; date ranges and exceptions are ignored.
	GenericWeekday CalendarMode = iota
	// SpecificDate honours date ranges and calendar exceptions.
	SpecificDate
)

func (m CalendarMode) String() string {
	if m == SpecificDate {
		return "date"
	}
	return "weekday"
}

// ParseCalendarMode accepts "date" or "weekday" (case-insensitive).
func ParseCalendarMode(s string) (CalendarMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date", "specific", "specific_date":
		return SpecificDate, nil
	case "weekday", "generic", "":
		return GenericWeekday, nil
	}
	return GenericWeekday, fmt.Errorf("unknown calendar mode %q", s)
}

// DayToken identifies an analysis day: either a generic weekday or an absolute date.
type DayToken struct {
	Weekday time.Weekday
	Date    time.Time
	hasDate bool
}

// NewWeekdayToken returns a token for a generic weekday.
func NewWeekdayToken(w time.Weekday) DayToken {
	return DayToken{Weekday: w}
}

// NewDateToken returns a token for the calendar date of t. The time of day and
// location are discarded.
func NewDateToken(t time.Time) DayToken {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return DayToken{Weekday: d.Weekday(), Date: d, hasDate: true}
}

// ParseDayToken accepts YYYY-MM-DD or an English weekday name.
func ParseDayToken(s string) (DayToken, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return NewDateToken(t), nil
	}
	for w := time.Sunday; w <= time.Saturday; w++ {
		if strings.EqualFold(s, w.String()) {
			return NewWeekdayToken(w), nil
		}
	}
	return DayToken{}, fmt.Errorf("invalid day %q, use YYYY-MM-DD or a weekday name", s)
}

// IsDate reports whether the token carries an absolute date.
func (d DayToken) IsDate() bool {
	return d.hasDate
}

// Prev returns the previous day: the previous weekday, wrapping Sunday back to
// Saturday, or the previous date.
func (d DayToken) Prev() DayToken {
	if d.hasDate {
		return NewDateToken(d.Date.AddDate(0, 0, -1))
	}
	return NewWeekdayToken((d.Weekday + 6) % 7)
}

// Next returns the following day.
func (d DayToken) Next() DayToken {
	if d.hasDate {
		return NewDateToken(d.Date.AddDate(0, 0, 1))
	}
	return NewWeekdayToken((d.Weekday + 1) % 7)
}

func (d DayToken) String() string {
	if d.hasDate {
		return d.Date.Format("2006-01-02")
	}
	return d.Weekday.String()
}

// TimeWindow is a half-open interval [Start, End) of seconds relative to the
// analysis day's midnight. End may exceed a full day.
type TimeWindow struct {
	Start int
	End   int
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t int) bool {
	return t >= w.Start && t < w.End
}

// Duration is the window length in seconds.
func (w TimeWindow) Duration() int {
	return w.End - w.Start
}

// Validate checks that the window is not inverted.
func (w TimeWindow) Validate() error {
	if w.End < w.Start {
		return fmt.Errorf("time window end %d precedes start %d", w.End, w.Start)
	}
	return nil
}

func (d *DayType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Today", "":
		*d = Today
	case "Yesterday":
		*d = Yesterday
	case "Tomorrow":
		*d = Tomorrow
	default:
		return fmt.Errorf("unknown day type %q", string(text))
	}
	return nil
}
