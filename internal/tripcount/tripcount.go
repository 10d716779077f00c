// Package tripcount counts the scheduled transit trips serving stops or line
// segments during a time window.
package tripcount

import (
	"context"
	"fmt"

	"github.com/gtfs-tools/transitaccess/internal/batch"
	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/schedule"
	"github.com/gtfs-tools/transitaccess/internal/stats"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

type Options struct {
	Day          models.DayToken
	CalendarMode models.CalendarMode
	Window       models.TimeWindow
	// Field selects which scheduled time must fall in the window. Departures by default.
	Field models.TimeField
	// Kind selects stops or line segments when Elements is empty.
	Kind models.ElementKind
	// Elements restricts the count to these elements.
	Elements []models.ElementID
}

type Result struct {
	AnalysisID  string
	Window      models.TimeWindow
	Field       models.TimeField
	Elements    []models.ElementID
	Occurrences map[models.ElementID][]models.Occurrence
	Diagnostics []warnings.Warning
}

// Count lists, for each element, the occurrences whose selected time falls in
// the window. Trips from yesterday and tomorrow are included when the window
// reaches them, each counted once per service day.
func Count(feed *schedule.Feed, opts Options) (*Result, error) {
	analysis, err := feed.NewAnalysis(schedule.AnalysisOptions{
		Day:    opts.Day,
		Mode:   opts.CalendarMode,
		Window: opts.Window,
	})
	if err != nil {
		return nil, err
	}

	elements := opts.Elements
	if len(elements) == 0 {
		elements = feed.Elements(opts.Kind)
	}

	result := &Result{
		AnalysisID:  analysis.ID,
		Window:      opts.Window,
		Field:       opts.Field,
		Elements:    elements,
		Occurrences: make(map[models.ElementID][]models.Occurrence, len(elements)),
		Diagnostics: analysis.Diagnostics(),
	}
	for _, el := range elements {
		result.Occurrences[el] = analysis.Occurrences(el, opts.Field)
	}
	return result, nil
}

// Times returns the selected times at el in ascending order.
func (r *Result) Times(el models.ElementID) []int {
	occs := r.Occurrences[el]
	times := make([]int, 0, len(occs))
	for _, o := range occs {
		times = append(times, r.Field.Of(o))
	}
	return times
}

func (r *Result) Summary(el models.ElementID) stats.Summary {
	return stats.Aggregate(r.Times(el), r.Window)
}

// Statistics summarises every counted element.
func (r *Result) Statistics() map[models.ElementID]stats.Summary {
	out := make(map[models.ElementID]stats.Summary, len(r.Elements))
	for _, el := range r.Elements {
		out[el] = r.Summary(el)
	}
	return out
}

// CountSlices counts each window independently on the batch worker pool and
// returns one result per window in input order.
func CountSlices(ctx context.Context, feed *schedule.Feed, base Options, windows []models.TimeWindow, opts batch.Options) ([]*Result, error) {
	return batch.Run(ctx, windows, opts, func(ctx context.Context, w models.TimeWindow) (*Result, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sliceOpts := base
		sliceOpts.Window = w
		result, err := Count(feed, sliceOpts)
		if err != nil {
			return nil, fmt.Errorf("counting window %d-%d: %w", w.Start, w.End, err)
		}
		return result, nil
	})
}

// Slices splits [start, end) into consecutive windows of length width,
// stepping by step seconds.
func Slices(start, end, width, step int) ([]models.TimeWindow, error) {
	if width <= 0 || step <= 0 {
		return nil, fmt.Errorf("slice width and step must be positive")
	}
	var out []models.TimeWindow
	for s := start; s+width <= end; s += step {
		out = append(out, models.TimeWindow{Start: s, End: s + width})
	}
	return out, nil
}
