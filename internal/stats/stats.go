// Package stats turns the scheduled times at an element into accessibility
// statistics: trip count, trips per hour, average headway and maximum wait.
package stats

import (
	"math"
	"sort"

	"github.com/gtfs-tools/transitaccess/internal/models"
)

// Summary describes the service at one element over a time window. Headway
// and MaxWait are whole minutes and nil when undefined.
type Summary struct {
	Count       int
	RatePerHour float64
	Headway     *int
	MaxWait     *int
}

// Model converts the summary to its JSON form.
func (s Summary) Model() models.StatisticsModel {
	return models.StatisticsModel{
		Count:       s.Count,
		RatePerHour: s.RatePerHour,
		Headway:     s.Headway,
		MaxWait:     s.MaxWait,
	}
}

// Aggregate summarises times (seconds, any order) observed inside window.
func Aggregate(times []int, window models.TimeWindow) Summary {
	sorted := append([]int(nil), times...)
	sort.Ints(sorted)

	return Summary{
		Count:       len(sorted),
		RatePerHour: RatePerHour(len(sorted), window),
		Headway:     Headway(sorted),
		MaxWait:     MaxWait(sorted, window),
	}
}

// RatePerHour is count divided by the window length in hours; zero for an
// empty window.
func RatePerHour(count int, window models.TimeWindow) float64 {
	if window.Duration() <= 0 {
		return 0
	}
	return float64(count) / (float64(window.Duration()) / 3600)
}

// Headway is the mean gap between consecutive sorted times, rounded to whole
// minutes. It needs at least two times.
func Headway(sorted []int) *int {
	if len(sorted) < 2 {
		return nil
	}
	total := 0
	for i := 1; i < len(sorted); i++ {
		total += sorted[i] - sorted[i-1]
	}
	mean := float64(total) / float64(len(sorted)-1)
	return minutes(mean)
}

// MaxWait is the longest gap between consecutive sorted times, in whole
// minutes. The gaps between the window edges and the first and last times are
// unknown waits (service outside the window is not observed), so the value is
// only defined when the longest internal gap exceeds both edge gaps.
func MaxWait(sorted []int, window models.TimeWindow) *int {
	if len(sorted) < 2 {
		return nil
	}
	internal := 0
	for i := 1; i < len(sorted); i++ {
		internal = max(internal, sorted[i]-sorted[i-1])
	}
	edge := max(sorted[0]-window.Start, window.End-sorted[len(sorted)-1])
	if edge >= internal {
		return nil
	}
	return minutes(float64(internal))
}

func minutes(seconds float64) *int {
	m := int(math.Round(seconds / 60))
	return &m
}
