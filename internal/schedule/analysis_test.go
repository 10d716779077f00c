package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

func TestAnalysisPicksUpYesterdaysOvernightTrips(t *testing.T) {
	feed := fixtureFeed(t)
	a, err := feed.NewAnalysis(AnalysisOptions{
		Day:    models.NewDateToken(day(2024, 3, 12)),
		Mode:   models.SpecificDate,
		Window: models.TimeWindow{Start: 0, End: 3600},
	})
	require.NoError(t, err)

	assert.True(t, a.Plan().ConsiderYesterday)
	assert.False(t, a.Plan().ConsiderTomorrow)
	assert.Equal(t, []string{"WK"}, a.Services(models.Yesterday).IDs())

	occs := a.Occurrences(stop(t, "B"), models.DepartureTime)
	require.Len(t, occs, 1)
	assert.Equal(t, "TLATE", occs[0].ID)
	assert.Equal(t, models.Yesterday, occs[0].DayType)
	assert.Equal(t, 360, occs[0].Departure)

	arrivals := a.Occurrences(stop(t, "C"), models.ArrivalTime)
	require.Len(t, arrivals, 1)
	assert.Equal(t, 900, arrivals[0].Arrival)
}

func TestAnalysisPicksUpTomorrowsTrips(t *testing.T) {
	feed := fixtureFeed(t)
	a, err := feed.NewAnalysis(AnalysisOptions{
		Day:    models.NewDateToken(day(2024, 3, 15)),
		Mode:   models.SpecificDate,
		Window: models.TimeWindow{Start: 86000, End: 116000},
	})
	require.NoError(t, err)

	assert.True(t, a.Plan().ConsiderTomorrow)
	assert.Equal(t, "2024-03-16", a.Plan().Tomorrow.String())

	atA := a.Occurrences(stop(t, "A"), models.DepartureTime)
	assert.Equal(t, []string{"TS"}, ids(atA))
	assert.Equal(t, 115200, atA[0].Departure)

	atB := a.Occurrences(stop(t, "B"), models.DepartureTime)
	require.Len(t, atB, 2)
	assert.Equal(t, "TLATE", atB[0].ID)
	assert.Equal(t, models.Today, atB[0].DayType)
	assert.Equal(t, "TS", atB[1].ID)
	assert.Equal(t, models.Tomorrow, atB[1].DayType)
}

func TestAnalysisExpandsFrequenciesLazily(t *testing.T) {
	feed := fixtureFeed(t)
	a, err := feed.NewAnalysis(AnalysisOptions{
		Day:    models.NewWeekdayToken(time.Monday),
		Mode:   models.GenericWeekday,
		Window: models.TimeWindow{Start: 28800, End: 30000},
	})
	require.NoError(t, err)
	assert.Empty(t, a.starts)

	occs := a.Occurrences(stop(t, "D"), models.DepartureTime)
	assert.Equal(t, []string{"TF_Today_28800", "TF_Today_29400"}, ids(occs))
	assert.Contains(t, a.starts, "TF")

	atA := a.Occurrences(stop(t, "A"), models.DepartureTime)
	assert.Equal(t, []string{"T1"}, ids(atA))
}

func TestAnalysisReportsMissingService(t *testing.T) {
	feed := fixtureFeed(t)
	a, err := feed.NewAnalysis(AnalysisOptions{
		Day:    models.NewDateToken(day(2024, 3, 10)),
		Mode:   models.SpecificDate,
		Window: models.TimeWindow{Start: 36000, End: 39600},
	})
	require.NoError(t, err)

	require.Len(t, a.Diagnostics(), 1)
	assert.Equal(t, warnings.KindNoServiceFound, a.Diagnostics()[0].Kind())
	assert.Empty(t, a.Occurrences(stop(t, "A"), models.DepartureTime))
}

func TestAnalysisRejectsInvalidOptions(t *testing.T) {
	feed := fixtureFeed(t)

	_, err := feed.NewAnalysis(AnalysisOptions{
		Day:    models.NewWeekdayToken(time.Monday),
		Window: models.TimeWindow{Start: 10, End: 0},
	})
	assert.Error(t, err)

	_, err = feed.NewAnalysis(AnalysisOptions{
		Day:    models.NewWeekdayToken(time.Monday),
		Mode:   models.SpecificDate,
		Window: models.TimeWindow{Start: 0, End: 10},
	})
	assert.ErrorIs(t, err, ErrDateRequired)
}

func TestAnalysesHaveDistinctIDs(t *testing.T) {
	feed := fixtureFeed(t)
	opts := AnalysisOptions{Day: models.NewWeekdayToken(time.Monday), Window: models.TimeWindow{Start: 0, End: 10}}
	a, err := feed.NewAnalysis(opts)
	require.NoError(t, err)
	b, err := feed.NewAnalysis(opts)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAnalysisKeepsRunsApartFromTripsWithTheSameID(t *testing.T) {
	store := fixtureStore()
	store.RunRows = []models.Run{{ID: "T1", CalendarID: "WK", ScheduleID: "SCH1", RouteID: "R1", StartMinutes: 600}}
	feed, err := NewFeed(FeedData{
		Calendars:    store.CalendarRows,
		Exceptions:   store.ExceptionRows,
		Routes:       store.RouteRows,
		Trips:        store.TripRows,
		StopTimes:    store.StopTimeRows,
		Frequencies:  store.FrequencyRows,
		Runs:         store.RunRows,
		RunSchedules: store.RunScheduleRows,
	})
	require.NoError(t, err)

	a, err := feed.NewAnalysis(AnalysisOptions{
		Day:    models.NewWeekdayToken(time.Monday),
		Mode:   models.GenericWeekday,
		Window: models.TimeWindow{Start: 25200, End: 39600},
	})
	require.NoError(t, err)

	occs := a.Occurrences(stop(t, "A"), models.DepartureTime)
	require.Len(t, occs, 3)
	assert.Equal(t, []string{"T1", "T2", "T1"}, ids(occs))
	assert.False(t, occs[0].Run)
	assert.Equal(t, 28800, occs[0].Departure)
	assert.True(t, occs[2].Run)
	assert.Equal(t, 36000, occs[2].Departure)
}
