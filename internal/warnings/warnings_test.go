package warnings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorKeepsThreeExamples(t *testing.T) {
	agg := NewAggregator()
	for _, id := range []string{"t1", "t2", "t3", "t4"} {
		agg.Add(DuplicateTripID{TripID: id})
	}
	agg.Add(ZeroHeadway{TripID: "f1"})

	summaries := agg.Summaries()
	require.Len(t, summaries, 2)

	assert.Equal(t, KindDuplicateTripID, summaries[0].Kind)
	assert.Equal(t, 4, summaries[0].Count)
	assert.Equal(t, []string{"t1", "t2", "t3"}, summaries[0].Examples)
	assert.Equal(t, KindZeroHeadway, summaries[1].Kind)

	assert.Equal(t, 5, agg.Len())
	assert.Equal(t, map[string]int{"duplicate_trip_id": 4, "zero_headway": 1}, agg.Counts())
}

func TestNonOverlappingCalendarsMessage(t *testing.T) {
	w := NonOverlappingCalendars{
		Day:       "Monday",
		Pairs:     []CalendarPair{{Later: "summer", Earlier: "winter"}},
		Truncated: true,
	}
	assert.Contains(t, w.Error(), "summer/winter")
	assert.Contains(t, w.Error(), "first 10 pairs")
	assert.Equal(t, "Monday", w.Subject())
}
