package schedule

import (
	"math"

	"github.com/gtfs-tools/transitaccess/internal/models"
)

// candidateSeconds orders the whole seconds tried for a target time: the
// rounded value, then one second on the side the rounding moved away from,
// then the other side.
func candidateSeconds(target float64) []int {
	rounded := math.Round(target)
	base := int(rounded)
	if target >= rounded {
		return []int{base, base + 1, base - 1}
	}
	return []int{base, base - 1, base + 1}
}

// Match finds the occurrences of one service day scheduled exactly at target
// (seconds relative to the analysis day) on el. Solver arithmetic is not exact,
// so when nothing is scheduled at the rounded second the neighbouring seconds
// are tried. Only services resolved for dt are considered. An empty result is
// not an error.
func (a *Analysis) Match(el models.ElementID, target float64, field models.TimeField, dt models.DayType) []models.Occurrence {
	for _, t := range candidateSeconds(target) {
		if occs := a.OccurrencesBetween(el, field, t, t+1, dt); len(occs) > 0 {
			return occs
		}
	}
	return nil
}

// MatchAll runs Match for every considered service day and concatenates the
// results, today first.
func (a *Analysis) MatchAll(el models.ElementID, target float64, field models.TimeField) []models.Occurrence {
	var out []models.Occurrence
	for _, dt := range a.plan.DayTypes() {
		out = append(out, a.Match(el, target, field, dt)...)
	}
	return out
}

// WaitSeconds is the time on an edge not spent riding occ.
func WaitSeconds(occ models.Occurrence, segmentSeconds float64) float64 {
	return segmentSeconds - float64(occ.RideSeconds())
}

// PreferNonNegativeWait narrows ambiguous candidates to those whose ride fits
// inside the edge time. With a single candidate, or when every candidate has a
// negative wait, the input is returned unchanged.
func PreferNonNegativeWait(candidates []models.Occurrence, segmentSeconds float64) []models.Occurrence {
	if len(candidates) < 2 {
		return candidates
	}
	var kept []models.Occurrence
	for _, c := range candidates {
		if WaitSeconds(c, segmentSeconds) >= 0 {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return candidates
	}
	return kept
}
