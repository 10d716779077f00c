package models

import "fmt"

// ScheduleElement is one stop visit of a trip or run schedule. Arrival and
// Departure are seconds since local midnight for trips, or since the start of
// the run for run schedules. Values past 86400 are valid.
type ScheduleElement struct {
	OwnerID   string `json:"ownerId"`
	Sequence  int    `json:"sequence"`
	StopID    string `json:"stopId"`
	Arrival   int    `json:"arrival"`
	Departure int    `json:"departure"`
}

// FrequencyWindow describes headway-based service: a vehicle departs every
// Headway seconds from Start up to, but excluding, End.
type FrequencyWindow struct {
	TripID     string `json:"tripId"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Headway    int    `json:"headway"`
	ExactTimes bool   `json:"exactTimes"`
}

// Run is a vehicle run from the public transit data model. Its schedule
// elements are offsets from StartMinutes.
type Run struct {
	ID           string `json:"id"`
	CalendarID   string `json:"calendarId"`
	ScheduleID   string `json:"scheduleId"`
	RouteID      string `json:"routeId"`
	StartMinutes int    `json:"startMinutes"`
}

// StartSeconds converts the start-of-run offset to seconds since midnight.
func (r Run) StartSeconds() int {
	return r.StartMinutes * 60
}

func (r Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("run has empty id")
	}
	if r.ScheduleID == "" {
		return fmt.Errorf("run %s has empty schedule id", r.ID)
	}
	return nil
}
