package schedule

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

func TestExpandStarts(t *testing.T) {
	starts, diags := ExpandStarts([]models.FrequencyWindow{{TripID: "TF", Start: 28800, End: 32400, Headway: 600}})
	assert.Empty(t, diags)
	assert.Equal(t, []int{28800, 29400, 30000, 30600, 31200, 31800}, starts)
}

func TestExpandStartsEndIsExclusive(t *testing.T) {
	starts, _ := ExpandStarts([]models.FrequencyWindow{{Start: 0, End: 1200, Headway: 600}})
	assert.Equal(t, []int{0, 600}, starts)

	starts, _ = ExpandStarts([]models.FrequencyWindow{{Start: 100, End: 100, Headway: 600}})
	assert.Empty(t, starts)
}

func TestExpandStartsRejectsNonPositiveHeadway(t *testing.T) {
	starts, diags := ExpandStarts([]models.FrequencyWindow{
		{TripID: "TF", Start: 0, End: 3600, Headway: 0},
		{TripID: "TF", Start: 3600, End: 4800, Headway: -5},
		{TripID: "TF", Start: 7200, End: 8400, Headway: 600},
	})
	assert.Equal(t, []int{7200, 7800}, starts)
	require.Len(t, diags, 2)
	assert.Equal(t, warnings.ZeroHeadway{TripID: "TF", Start: 0, Headway: 0}, diags[0])
}

func TestExpandStartsMergesOverlappingWindows(t *testing.T) {
	starts, _ := ExpandStarts([]models.FrequencyWindow{
		{Start: 0, End: 1800, Headway: 600},
		{Start: 1200, End: 2400, Headway: 1200},
	})
	assert.Equal(t, []int{0, 600, 1200}, starts)
}

func TestFrequencyOccurrencesOnTomorrow(t *testing.T) {
	feed := fixtureFeed(t)
	a, err := feed.NewAnalysis(AnalysisOptions{
		Day:    models.NewDateToken(day(2024, 3, 14)),
		Mode:   models.SpecificDate,
		Window: models.TimeWindow{Start: 86000, End: 116400},
	})
	require.NoError(t, err)
	require.True(t, a.Plan().ConsiderTomorrow)

	type row struct {
		ID        string
		Departure int
		Arrival   int
	}
	rows := func(t *testing.T, occs []models.Occurrence) []row {
		var out []row
		for _, o := range occs {
			assert.True(t, o.Synthetic)
			assert.Equal(t, models.Tomorrow, o.DayType)
			out = append(out, row{ID: o.ID, Departure: o.Departure, Arrival: o.Arrival})
		}
		return out
	}

	tests := []struct {
		name     string
		element  models.ElementID
		field    models.TimeField
		from, to int
		want     []row
	}{
		{
			name:    "stop by departure",
			element: stop(t, "E"),
			field:   models.DepartureTime,
			from:    86400 + 29130,
			to:      86400 + 29730,
			want:    []row{{ID: "TF_Tomorrow_28800", Departure: 115530, Arrival: 115500}},
		},
		{
			name:    "stop by arrival",
			element: stop(t, "E"),
			field:   models.ArrivalTime,
			from:    86400 + 29130,
			to:      86400 + 29730,
			want:    []row{{ID: "TF_Tomorrow_29400", Departure: 116130, Arrival: 116100}},
		},
		{
			name:    "segment by arrival",
			element: segment(t, "D", "E", 2),
			field:   models.ArrivalTime,
			from:    86400 + 28800,
			to:      86400 + 30000,
			want:    []row{
				{ID: "TF_Tomorrow_28800", Departure: 115200, Arrival: 115500},
				{ID: "TF_Tomorrow_29400", Departure: 115800, Arrival: 116100},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rows(t, a.OccurrencesBetween(tt.element, tt.field, tt.from, tt.to, models.Tomorrow))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("OccurrencesBetween() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSyntheticIDsAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	starts, _ := ExpandStarts([]models.FrequencyWindow{{Start: 0, End: 86400, Headway: 300}})
	for _, dt := range []models.DayType{models.Yesterday, models.Today, models.Tomorrow} {
		for _, s := range starts {
			id := SyntheticID("TF", dt, s)
			assert.False(t, seen[id], id)
			seen[id] = true
		}
	}
}
