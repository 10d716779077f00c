package schedule

import (
	"fmt"
	"sort"

	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

// validWindows drops windows that cannot produce departures.
func validWindows(windows []models.FrequencyWindow) ([]models.FrequencyWindow, []warnings.Warning) {
	var valid []models.FrequencyWindow
	var diags []warnings.Warning
	for _, w := range windows {
		if w.Headway <= 0 {
			diags = append(diags, warnings.ZeroHeadway{TripID: w.TripID, Start: w.Start, Headway: w.Headway})
			continue
		}
		valid = append(valid, w)
	}
	return valid, diags
}

// lastStart is the latest departure a valid window generates, or false if it
// generates none.
func lastStart(w models.FrequencyWindow) (int, bool) {
	if w.End <= w.Start {
		return 0, false
	}
	return w.Start + ((w.End-1-w.Start)/w.Headway)*w.Headway, true
}

// ExpandStarts returns the sorted, de-duplicated synthetic start times of a
// frequency-based trip: start, start+headway, ... while the time is before the
// window end.
func ExpandStarts(windows []models.FrequencyWindow) ([]int, []warnings.Warning) {
	valid, diags := validWindows(windows)

	var starts []int
	for _, w := range valid {
		for t := w.Start; t < w.End; t += w.Headway {
			starts = append(starts, t)
		}
	}
	sort.Ints(starts)
	return dedupeSorted(starts), diags
}

func dedupeSorted(values []int) []int {
	if len(values) < 2 {
		return values
	}
	out := values[:1]
	for _, v := range values[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// SyntheticID names one instance of a frequency-based trip.
func SyntheticID(tripID string, dayType models.DayType, start int) string {
	return fmt.Sprintf("%s_%s_%d", tripID, dayType, start)
}

// expandVisit produces the synthetic occurrences of one frequency trip visit
// on service day dt whose selected time lies in [lo, hi). lo and hi are in the
// service day's own time; the returned times carry the day shift.
func expandVisit(fv frequencyVisit, el models.ElementID, starts []int, field models.TimeField,
	lo, hi int, dt models.DayType) []models.Occurrence {
	offset := fv.departureOffset
	if field == models.ArrivalTime {
		offset = fv.arrivalOffset
	}
	shift := dt.Shift()

	var out []models.Occurrence
	for j := sort.SearchInts(starts, lo-offset); j < len(starts) && starts[j]+offset < hi; j++ {
		start := starts[j]
		out = append(out, models.Occurrence{
			ID:        SyntheticID(fv.trip.ID, dt, start),
			TripID:    fv.trip.ID,
			ServiceID: fv.trip.ServiceID,
			RouteID:   fv.trip.RouteID,
			Element:   el,
			Departure: start + fv.departureOffset + shift,
			Arrival:   start + fv.arrivalOffset + shift,
			DayType:   dt,
			Synthetic: true,
		})
	}
	return out
}

func sortedElements(elements []models.ScheduleElement) []models.ScheduleElement {
	sorted := append([]models.ScheduleElement(nil), elements...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sequence < sorted[j].Sequence })
	return sorted
}
