package tripcount

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtfs-tools/transitaccess/internal/batch"
	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/schedule"
)

// testFeed: bus route R1 leaves A every 15 minutes from 07:00 to 08:45 and
// reaches B five minutes later; TLATE leaves A at 23:55 and reaches B at
// 00:10. Rail route R2 runs FQ from A to B every 20 minutes between 07:00 and
// 08:00.
func testFeed(t *testing.T) *schedule.Feed {
	t.Helper()
	data := schedule.FeedData{
		Calendars: []models.ServiceCalendar{{
			ServiceID: "ALL",
			Weekdays:  [7]bool{true, true, true, true, true, true, true},
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		}},
		Routes: []models.Route{{ID: "R1", Type: 3}, {ID: "R2", Type: 2}},
		Frequencies: []models.FrequencyWindow{
			{TripID: "FQ", Start: 25200, End: 28800, Headway: 1200},
		},
	}

	addTrip := func(id, route string, depart, arrive int) {
		data.Trips = append(data.Trips, models.Trip{ID: id, RouteID: route, ServiceID: "ALL"})
		data.StopTimes = append(data.StopTimes,
			models.ScheduleElement{OwnerID: id, Sequence: 1, StopID: "A", Arrival: depart, Departure: depart},
			models.ScheduleElement{OwnerID: id, Sequence: 2, StopID: "B", Arrival: arrive, Departure: arrive},
		)
	}
	for dep := 25200; dep < 32400; dep += 900 {
		addTrip(fmt.Sprintf("T%d", dep), "R1", dep, dep+300)
	}
	addTrip("TLATE", "R1", 86100, 87000)
	addTrip("FQ", "R2", 0, 600)

	feed, err := schedule.NewFeed(data)
	require.NoError(t, err)
	return feed
}

func stopA(t *testing.T) models.ElementID {
	el, err := models.NewStopElement("A")
	require.NoError(t, err)
	return el
}

func TestCountStops(t *testing.T) {
	result, err := Count(testFeed(t), Options{
		Day:          models.NewWeekdayToken(time.Monday),
		CalendarMode: models.GenericWeekday,
		Window:       models.TimeWindow{Start: 25200, End: 28800},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AnalysisID)
	assert.Len(t, result.Elements, 2)

	a := stopA(t)
	assert.Equal(t, []int{25200, 25200, 26100, 26400, 27000, 27600, 27900}, result.Times(a))

	summary := result.Summary(a)
	assert.Equal(t, 7, summary.Count)
	assert.InDelta(t, 7.0, summary.RatePerHour, 1e-9)
	require.NotNil(t, summary.Headway)
	assert.Equal(t, 8, *summary.Headway)
	assert.Nil(t, summary.MaxWait)

	stats := result.Statistics()
	assert.Len(t, stats, 2)
	assert.Equal(t, summary, stats[a])
}

func TestCountIncludesYesterdaysTrips(t *testing.T) {
	b, _ := models.NewStopElement("B")
	result, err := Count(testFeed(t), Options{
		Day:          models.NewDateToken(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)),
		CalendarMode: models.SpecificDate,
		Window:       models.TimeWindow{Start: 0, End: 1800},
		Field:        models.ArrivalTime,
		Elements:     []models.ElementID{b},
	})
	require.NoError(t, err)

	occs := result.Occurrences[b]
	require.Len(t, occs, 1)
	assert.Equal(t, "TLATE", occs[0].ID)
	assert.Equal(t, models.Yesterday, occs[0].DayType)
	assert.Equal(t, []int{600}, result.Times(b))

	summary := result.Summary(b)
	assert.Equal(t, 1, summary.Count)
	assert.Nil(t, summary.Headway)
	assert.Nil(t, summary.MaxWait)
}

func TestCountSegmentsSplitsByMode(t *testing.T) {
	result, err := Count(testFeed(t), Options{
		Day:    models.NewWeekdayToken(time.Monday),
		Window: models.TimeWindow{Start: 25200, End: 28800},
		Kind:   models.SegmentElement,
	})
	require.NoError(t, err)

	bus, _ := models.NewSegmentElement("A", "B", 3)
	rail, _ := models.NewSegmentElement("A", "B", 2)
	assert.ElementsMatch(t, []models.ElementID{bus, rail}, result.Elements)
	assert.Equal(t, 4, result.Summary(bus).Count)
	assert.Equal(t, 3, result.Summary(rail).Count)
}

func TestCountSlices(t *testing.T) {
	windows, err := Slices(25200, 32400, 3600, 1800)
	require.NoError(t, err)
	require.Len(t, windows, 3)

	results, err := CountSlices(context.Background(), testFeed(t), Options{
		Day:      models.NewWeekdayToken(time.Monday),
		Elements: []models.ElementID{stopA(t)},
	}, windows, batch.Options{Workers: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)

	var counts []int
	for i, r := range results {
		assert.Equal(t, windows[i], r.Window)
		counts = append(counts, r.Summary(stopA(t)).Count)
	}
	assert.Equal(t, []int{7, 5, 4}, counts)
}

func TestCountSlicesReportsBadWindows(t *testing.T) {
	_, err := CountSlices(context.Background(), testFeed(t), Options{Day: models.NewWeekdayToken(time.Monday)},
		[]models.TimeWindow{{Start: 100, End: 0}}, batch.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "counting window 100-0")
}

func TestSlicesValidation(t *testing.T) {
	_, err := Slices(0, 3600, 0, 600)
	assert.Error(t, err)

	windows, err := Slices(0, 1000, 600, 600)
	require.NoError(t, err)
	assert.Equal(t, []models.TimeWindow{{Start: 0, End: 600}}, windows)
}
