package schedule

import (
	"sort"

	"github.com/google/uuid"

	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

type AnalysisOptions struct {
	Day    models.DayToken
	Mode   models.CalendarMode
	Window models.TimeWindow
}

// Analysis is the context of one analysis run: the day plan, the service sets
// resolved for each considered day, and a lazily filled cache of expanded
// frequency departures. It is not safe for concurrent use; separate analyses
// over the same Feed are independent.
type Analysis struct {
	ID string

	feed        *Feed
	mode        models.CalendarMode
	window      models.TimeWindow
	plan        DayPlan
	services    map[models.DayType]ServiceSet
	starts      map[string][]int
	diagnostics []warnings.Warning
}

// NewAnalysis plans the service days for opts.Window and resolves each of them
// once.
func (f *Feed) NewAnalysis(opts AnalysisOptions) (*Analysis, error) {
	if err := opts.Window.Validate(); err != nil {
		return nil, err
	}

	a := &Analysis{
		ID:       uuid.NewString(),
		feed:     f,
		mode:     opts.Mode,
		window:   opts.Window,
		plan:     PlanDays(opts.Window, f.maxOffset, opts.Day),
		services: make(map[models.DayType]ServiceSet, 3),
		starts:   make(map[string][]int),
	}

	for _, dt := range a.plan.DayTypes() {
		set, diags, err := f.resolver.Resolve(a.plan.Token(dt), opts.Mode)
		if err != nil {
			return nil, err
		}
		a.services[dt] = set
		a.diagnostics = append(a.diagnostics, diags...)
	}

	if len(a.services[models.Today]) == 0 {
		a.diagnostics = append(a.diagnostics, warnings.NoServiceFound{Day: opts.Day.String(), Mode: opts.Mode.String()})
	}
	return a, nil
}

func (a *Analysis) Feed() *Feed {
	return a.feed
}

func (a *Analysis) Plan() DayPlan {
	return a.plan
}

func (a *Analysis) Window() models.TimeWindow {
	return a.window
}

// Services returns the services resolved for a considered day type, or nil.
func (a *Analysis) Services(dt models.DayType) ServiceSet {
	return a.services[dt]
}

func (a *Analysis) Diagnostics() []warnings.Warning {
	return append([]warnings.Warning(nil), a.diagnostics...)
}

// frequencyStarts expands a trip's departures on first use. Headway warnings
// were already reported when the feed was indexed.
func (a *Analysis) frequencyStarts(tripID string) []int {
	if starts, ok := a.starts[tripID]; ok {
		return starts
	}
	starts, _ := ExpandStarts(a.feed.frequencies[tripID])
	a.starts[tripID] = starts
	return starts
}

// OccurrencesBetween returns the occurrences of one service day whose
// selected time, after the day shift, lies in [from, to). Results are sorted
// by that time, then by occurrence id.
func (a *Analysis) OccurrencesBetween(el models.ElementID, field models.TimeField, from, to int, dt models.DayType) []models.Occurrence {
	services, ok := a.services[dt]
	if !ok || from >= to {
		return nil
	}
	shift := dt.Shift()
	lo, hi := from-shift, to-shift

	var out []models.Occurrence

	index := a.feed.byDeparture[el]
	key := func(e entry) int { return e.departure }
	if field == models.ArrivalTime {
		index = a.feed.byArrival[el]
		key = func(e entry) int { return e.arrival }
	}
	i := sort.Search(len(index), func(i int) bool { return key(index[i]) >= lo })
	for ; i < len(index) && key(index[i]) < hi; i++ {
		e := index[i]
		if !services.Contains(e.inst.serviceID) {
			continue
		}
		out = append(out, models.Occurrence{
			ID:        e.inst.id,
			TripID:    e.inst.tripID,
			ServiceID: e.inst.serviceID,
			RouteID:   e.inst.routeID,
			Element:   el,
			Departure: e.departure + shift,
			Arrival:   e.arrival + shift,
			DayType:   dt,
			Run:       e.inst.run,
		})
	}

	for _, fv := range a.feed.freqVisits[el] {
		if !services.Contains(fv.trip.ServiceID) {
			continue
		}
		out = append(out, expandVisit(fv, el, a.frequencyStarts(fv.trip.ID), field, lo, hi, dt)...)
	}

	sortOccurrences(out, field)
	return out
}

// Occurrences returns every occurrence at el whose selected time lies in the
// analysis window, across all considered service days, unique per occurrence
// id and day type.
func (a *Analysis) Occurrences(el models.ElementID, field models.TimeField) []models.Occurrence {
	seen := make(map[models.OccurrenceKey]struct{})
	var out []models.Occurrence
	for _, dt := range a.plan.DayTypes() {
		for _, occ := range a.OccurrencesBetween(el, field, a.window.Start, a.window.End, dt) {
			if _, dup := seen[occ.Key()]; dup {
				continue
			}
			seen[occ.Key()] = struct{}{}
			out = append(out, occ)
		}
	}
	sortOccurrences(out, field)
	return out
}

func sortOccurrences(occs []models.Occurrence, field models.TimeField) {
	sort.SliceStable(occs, func(i, j int) bool {
		ti, tj := field.Of(occs[i]), field.Of(occs[j])
		if ti != tj {
			return ti < tj
		}
		if occs[i].ID != occs[j].ID {
			return occs[i].ID < occs[j].ID
		}
		if occs[i].DayType != occs[j].DayType {
			return occs[i].DayType < occs[j].DayType
		}
		return !occs[i].Run && occs[j].Run
	})
}
