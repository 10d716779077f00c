// Package traversal attaches scheduled transit trips to the edges of a solved
// network path.
package traversal

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/schedule"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

// Mode says how the solver's cumulative times relate to the anchor time.
type Mode int

const (
	// StartTime: the path leaves at the anchor and cumulative time grows along it.
	StartTime Mode = iota
	// EndTimeForward: the path arrives at the anchor; edges are listed in travel order.
	EndTimeForward
	// EndTimeReverse: the path arrives at the anchor; cumulative time is
	// measured backwards from the destination.
	EndTimeReverse
)

func (m Mode) String() string {
	switch m {
	case EndTimeForward:
		return "end_time_forward"
	case EndTimeReverse:
		return "end_time_reverse"
	}
	return "start_time"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start_time", "start", "":
		return StartTime, nil
	case "end_time_forward", "end_forward":
		return EndTimeForward, nil
	case "end_time_reverse", "end_reverse":
		return EndTimeReverse, nil
	}
	return StartTime, fmt.Errorf("unknown traversal mode %q", s)
}

type State int

const (
	Uninitialized State = iota
	CalendarsResolved
	Enriching
	Done
)

func (s State) String() string {
	return [...]string{"Uninitialized", "CalendarsResolved", "Enriching", "Done"}[s]
}

var ErrAlreadyEnriched = errors.New("traversal enricher has already been used")

type Options struct {
	// Anchor is the departure time (StartTime) or arrival time (EndTime modes).
	// Its clock time and, for SpecificDate, its date are used.
	Anchor       time.Time
	Mode         Mode
	CalendarMode models.CalendarMode
	// RouteKey groups edges into paths for EndTimeForward. Defaults to RouteID.
	RouteKey func(models.TraversalEdge) string
	Logger   *slog.Logger
}

type Result struct {
	AnalysisID  string
	Enriched    int
	Unmatched   int
	Ambiguous   int
	Diagnostics []warnings.Warning
}

// Enricher is single use: one Enrich call per instance.
type Enricher struct {
	feed     *schedule.Feed
	opts     Options
	state    State
	analysis *schedule.Analysis
}

func NewEnricher(feed *schedule.Feed, opts Options) *Enricher {
	if opts.RouteKey == nil {
		opts.RouteKey = func(e models.TraversalEdge) string { return e.RouteID }
	}
	return &Enricher{feed: feed, opts: opts}
}

func (e *Enricher) State() State {
	return e.state
}

// Enrich matches every transit-line edge to the scheduled occurrence the
// traveller rides and writes the enrichment onto the edge in place. Edges that
// match nothing keep a nil enrichment.
func (e *Enricher) Enrich(edges []models.TraversalEdge) (Result, error) {
	if e.state != Uninitialized {
		return Result{}, ErrAlreadyEnriched
	}
	started := time.Now()

	targets := e.crossingTimes(edges)
	if len(targets) == 0 {
		e.state = Done
		return Result{}, nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, t := range targets {
		lo = math.Min(lo, t)
		hi = math.Max(hi, t)
	}
	window := models.TimeWindow{Start: int(math.Floor(lo)) - 1, End: int(math.Ceil(hi)) + 2}

	analysis, err := e.feed.NewAnalysis(schedule.AnalysisOptions{
		Day:    e.dayToken(),
		Mode:   e.opts.CalendarMode,
		Window: window,
	})
	if err != nil {
		return Result{}, fmt.Errorf("resolving calendars for %s: %w", e.opts.Anchor.Format(time.RFC3339), err)
	}
	e.analysis = analysis
	e.state = CalendarsResolved

	result := Result{AnalysisID: analysis.ID, Diagnostics: analysis.Diagnostics()}

	e.state = Enriching
	field := models.DepartureTime
	if e.opts.Mode == StartTime {
		field = models.ArrivalTime
	}

	indexes := make([]int, 0, len(targets))
	for i := range targets {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	for _, i := range indexes {
		edge := &edges[i]
		segmentSeconds := edge.Segment * 60

		candidates := analysis.MatchAll(edge.Element, targets[i], field)
		candidates = schedule.PreferNonNegativeWait(candidates, segmentSeconds)
		if len(candidates) == 0 {
			result.Unmatched++
			continue
		}
		if len(candidates) > 1 {
			result.Ambiguous++
			sort.SliceStable(candidates, func(a, b int) bool {
				if candidates[a].Departure != candidates[b].Departure {
					return candidates[a].Departure < candidates[b].Departure
				}
				return candidates[a].ID < candidates[b].ID
			})
		}

		chosen := candidates[0]
		ride := float64(chosen.RideSeconds()) / 60
		edge.Enrichment = &models.EdgeEnrichment{
			RideTime:     ride,
			WaitTime:     round2(edge.Segment - ride),
			OccurrenceID: chosen.ID,
			TripID:       chosen.TripID,
			DayType:      chosen.DayType,
			Departure:    chosen.Departure,
			Arrival:      chosen.Arrival,
		}
		result.Enriched++
	}

	e.state = Done
	logging.LogOperation(e.opts.Logger, "traversal_enriched",
		slog.String("analysis_id", result.AnalysisID),
		slog.String("mode", e.opts.Mode.String()),
		slog.Int("enriched", result.Enriched),
		slog.Int("unmatched", result.Unmatched),
		slog.Int("ambiguous", result.Ambiguous),
		slog.Duration("duration", time.Since(started)))
	return result, nil
}

// crossingTimes computes, for each transit edge, the scheduled time to match
// in seconds relative to the anchor day's midnight.
func (e *Enricher) crossingTimes(edges []models.TraversalEdge) map[int]float64 {
	anchor := clockSeconds(e.opts.Anchor)

	var totals map[string]float64
	if e.opts.Mode == EndTimeForward {
		totals = make(map[string]float64)
		for _, edge := range edges {
			key := e.opts.RouteKey(edge)
			totals[key] = math.Max(totals[key], edge.Cumulative)
		}
	}

	targets := make(map[int]float64)
	for i, edge := range edges {
		if !edge.IsTransit() {
			continue
		}
		switch e.opts.Mode {
		case StartTime:
			targets[i] = anchor + edge.Cumulative*60
		case EndTimeForward:
			total := totals[e.opts.RouteKey(edge)]
			targets[i] = anchor - ((total-edge.Cumulative)+edge.Segment)*60
		case EndTimeReverse:
			targets[i] = anchor - edge.Cumulative*60
		}
	}
	return targets
}

func (e *Enricher) dayToken() models.DayToken {
	if e.opts.CalendarMode == models.SpecificDate {
		return models.NewDateToken(e.opts.Anchor)
	}
	return models.NewWeekdayToken(e.opts.Anchor.Weekday())
}

func clockSeconds(t time.Time) float64 {
	h, m, s := t.Clock()
	return float64(h*3600+m*60+s) + float64(t.Nanosecond())/1e9
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
