package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

func TestResolveSpecificDateAppliesExceptions(t *testing.T) {
	store := fixtureStore()
	resolver := NewResolver(store.CalendarRows, store.ExceptionRows)

	set, diags, err := resolver.Resolve(models.NewDateToken(day(2024, 3, 4)), models.SpecificDate)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, []string{"SPECIAL"}, set.IDs())

	set, _, err = resolver.Resolve(models.NewDateToken(day(2024, 3, 11)), models.SpecificDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"WK"}, set.IDs())

	set, _, err = resolver.Resolve(models.NewDateToken(day(2024, 7, 1)), models.SpecificDate)
	require.NoError(t, err)
	assert.Empty(t, set, "outside every calendar range")
}

func TestResolveGenericWeekdayIgnoresDatesAndExceptions(t *testing.T) {
	store := fixtureStore()
	resolver := NewResolver(store.CalendarRows, store.ExceptionRows)

	set, diags, err := resolver.Resolve(models.NewWeekdayToken(time.Monday), models.GenericWeekday)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, []string{"WK"}, set.IDs())

	// A date token in weekday mode only contributes its weekday.
	set, _, err = resolver.Resolve(models.NewDateToken(day(2024, 3, 4)), models.GenericWeekday)
	require.NoError(t, err)
	assert.Equal(t, []string{"WK"}, set.IDs())
}

func TestResolveWithoutExceptionsMatchesTheBaseFilter(t *testing.T) {
	store := fixtureStore()
	resolver := NewResolver(store.CalendarRows, nil)

	for d := day(2023, 12, 25); d.Before(day(2024, 7, 8)); d = d.AddDate(0, 0, 1) {
		set, _, err := resolver.Resolve(models.NewDateToken(d), models.SpecificDate)
		require.NoError(t, err)

		want := ServiceSet{}
		for _, cal := range store.CalendarRows {
			if cal.RunsOn(d.Weekday()) && cal.Covers(d) {
				want[cal.ServiceID] = struct{}{}
			}
		}
		assert.Equal(t, want, set, d.Format("2006-01-02"))
	}
}

func TestResolveRequiresDateForSpecificMode(t *testing.T) {
	resolver := NewResolver(fixtureStore().CalendarRows, nil)
	_, _, err := resolver.Resolve(models.NewWeekdayToken(time.Monday), models.SpecificDate)
	assert.ErrorIs(t, err, ErrDateRequired)
}

func TestResolveReportsNonOverlappingCalendars(t *testing.T) {
	calendars := []models.ServiceCalendar{
		{ServiceID: "old", Weekdays: weekdays(time.Monday), StartDate: day(2023, 1, 1), EndDate: day(2023, 12, 31)},
		{ServiceID: "new", Weekdays: weekdays(time.Monday), StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31)},
		{ServiceID: "sunday", Weekdays: weekdays(time.Sunday), StartDate: day(2020, 1, 1), EndDate: day(2020, 12, 31)},
	}
	resolver := NewResolver(calendars, nil)

	set, diags, err := resolver.Resolve(models.NewWeekdayToken(time.Monday), models.GenericWeekday)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, set.IDs())

	require.Len(t, diags, 1)
	w, ok := diags[0].(warnings.NonOverlappingCalendars)
	require.True(t, ok)
	assert.Equal(t, []warnings.CalendarPair{{Later: "new", Earlier: "old"}}, w.Pairs)
	assert.False(t, w.Truncated)

	_, diags, err = resolver.Resolve(models.NewDateToken(day(2024, 3, 4)), models.SpecificDate)
	require.NoError(t, err)
	assert.Empty(t, diags, "the check only applies to weekday analyses")
}

func TestResolveCapsNonOverlappingPairs(t *testing.T) {
	var calendars []models.ServiceCalendar
	for year := 2010; year < 2016; year++ {
		calendars = append(calendars, models.ServiceCalendar{
			ServiceID: fmt.Sprintf("y%d", year),
			Weekdays:  weekdays(time.Friday),
			StartDate: day(year, 1, 1),
			EndDate:   day(year, 12, 31),
		})
	}
	resolver := NewResolver(calendars, nil)

	_, diags, err := resolver.Resolve(models.NewWeekdayToken(time.Friday), models.GenericWeekday)
	require.NoError(t, err)
	require.Len(t, diags, 1)

	w := diags[0].(warnings.NonOverlappingCalendars)
	assert.Len(t, w.Pairs, warnings.MaxReportedCalendarPairs)
	assert.True(t, w.Truncated)
	assert.Equal(t, warnings.CalendarPair{Later: "y2011", Earlier: "y2010"}, w.Pairs[0])
}
