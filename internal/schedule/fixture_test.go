package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gtfs-tools/transitaccess/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekdays(days ...time.Weekday) [7]bool {
	var flags [7]bool
	for _, d := range days {
		flags[d] = true
	}
	return flags
}

func stopTimes(owner string, rows ...[3]interface{}) []models.ScheduleElement {
	out := make([]models.ScheduleElement, 0, len(rows))
	for i, row := range rows {
		out = append(out, models.ScheduleElement{
			OwnerID:   owner,
			Sequence:  i + 1,
			StopID:    row[0].(string),
			Arrival:   row[1].(int),
			Departure: row[2].(int),
		})
	}
	return out
}

// fixtureStore is a small network:
//
//	R1 (bus): T1 at 08:00, T2 at 09:00, TLATE at 23:50 running past midnight,
//	          TS on Saturdays, run RUN1 starting at 10:00; all A -> B -> C.
//	R2 (rail): TF every 10 minutes from 08:00 to 09:00, D -> E -> F.
//
// WK runs Monday to Friday in the first half of 2024 and is removed on
// 2024-03-04, when SPECIAL is added instead.
func fixtureStore() *MemoryStore {
	monFri := weekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

	store := &MemoryStore{
		CalendarRows: []models.ServiceCalendar{
			{ServiceID: "WK", Weekdays: monFri, StartDate: day(2024, 1, 1), EndDate: day(2024, 6, 30)},
			{ServiceID: "SAT", Weekdays: weekdays(time.Saturday), StartDate: day(2024, 1, 1), EndDate: day(2024, 6, 30)},
		},
		ExceptionRows: []models.CalendarException{
			{ServiceID: "WK", Date: day(2024, 3, 4), Type: models.ServiceRemoved},
			{ServiceID: "SPECIAL", Date: day(2024, 3, 4), Type: models.ServiceAdded},
		},
		RouteRows: []models.Route{
			{ID: "R1", AgencyID: "AG", Type: 3},
			{ID: "R2", AgencyID: "AG", Type: 2},
		},
		TripRows: []models.Trip{
			{ID: "T1", RouteID: "R1", ServiceID: "WK"},
			{ID: "T2", RouteID: "R1", ServiceID: "WK"},
			{ID: "TLATE", RouteID: "R1", ServiceID: "WK"},
			{ID: "TS", RouteID: "R1", ServiceID: "SAT"},
			{ID: "TF", RouteID: "R2", ServiceID: "WK"},
		},
		FrequencyRows: []models.FrequencyWindow{
			{TripID: "TF", Start: 28800, End: 32400, Headway: 600},
		},
		RunRows: []models.Run{
			{ID: "RUN1", CalendarID: "WK", ScheduleID: "SCH1", RouteID: "R1", StartMinutes: 600},
		},
		RunScheduleRows: stopTimes("SCH1",
			[3]interface{}{"A", 0, 0},
			[3]interface{}{"B", 600, 660},
			[3]interface{}{"C", 1200, 1200},
		),
	}

	store.StopTimeRows = append(store.StopTimeRows, stopTimes("T1",
		[3]interface{}{"A", 28800, 28800},
		[3]interface{}{"B", 29400, 29460},
		[3]interface{}{"C", 30000, 30000})...)
	store.StopTimeRows = append(store.StopTimeRows, stopTimes("T2",
		[3]interface{}{"A", 32400, 32400},
		[3]interface{}{"B", 33000, 33060},
		[3]interface{}{"C", 33600, 33600})...)
	store.StopTimeRows = append(store.StopTimeRows, stopTimes("TLATE",
		[3]interface{}{"A", 85800, 85800},
		[3]interface{}{"B", 86700, 86760},
		[3]interface{}{"C", 87300, 87300})...)
	store.StopTimeRows = append(store.StopTimeRows, stopTimes("TS",
		[3]interface{}{"A", 28800, 28800},
		[3]interface{}{"B", 29400, 29460},
		[3]interface{}{"C", 30000, 30000})...)
	store.StopTimeRows = append(store.StopTimeRows, stopTimes("TF",
		[3]interface{}{"D", 0, 0},
		[3]interface{}{"E", 300, 330},
		[3]interface{}{"F", 600, 600})...)

	return store
}

func fixtureFeed(t *testing.T) *Feed {
	t.Helper()
	feed, err := LoadFeed(context.Background(), fixtureStore())
	require.NoError(t, err)
	return feed
}

func stop(t *testing.T, id string) models.ElementID {
	t.Helper()
	el, err := models.NewStopElement(id)
	require.NoError(t, err)
	return el
}

func segment(t *testing.T, from, to string, mode models.RouteType) models.ElementID {
	t.Helper()
	el, err := models.NewSegmentElement(from, to, mode)
	require.NoError(t, err)
	return el
}

func ids(occs []models.Occurrence) []string {
	out := make([]string, 0, len(occs))
	for _, o := range occs {
		out = append(out, o.ID)
	}
	return out
}
