package schedule

import (
	"context"
	"fmt"
	"sort"

	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

// FeedData is the raw content of a Store.
type FeedData struct {
	Calendars    []models.ServiceCalendar
	Exceptions   []models.CalendarException
	Routes       []models.Route
	Trips        []models.Trip
	StopTimes    []models.ScheduleElement
	Frequencies  []models.FrequencyWindow
	Runs         []models.Run
	RunSchedules []models.ScheduleElement
}

// template is the ordered stop pattern of a trip or run schedule.
type template struct {
	ownerID  string
	elements []models.ScheduleElement
}

// instance is a vehicle journey that visits its template at fixed times.
type instance struct {
	id        string
	tripID    string
	serviceID string
	routeID   string
	mode      models.RouteType
	tmpl      *template
	shift     int
	run       bool
}

// visit is a template position at an element, in template time.
type visit struct {
	element   models.ElementID
	departure int
	arrival   int
}

type entry struct {
	departure int
	arrival   int
	inst      *instance
}

// frequencyVisit is a frequency trip's visit at an element, as offsets from
// the trip's first departure.
type frequencyVisit struct {
	trip            models.Trip
	departureOffset int
	arrivalOffset   int
}

// Feed is the indexed, read-only schedule. It is built once per loaded feed
// and may be shared by concurrent analyses.
type Feed struct {
	resolver    *Resolver
	trips       map[string]models.Trip
	routes      map[string]models.Route
	frequencies map[string][]models.FrequencyWindow

	byDeparture map[models.ElementID][]entry
	byArrival   map[models.ElementID][]entry
	freqVisits  map[models.ElementID][]frequencyVisit
	elements    []models.ElementID

	maxOffset int
	warnings  []warnings.Warning
}

// LoadFeed reads every table of store and indexes it.
func LoadFeed(ctx context.Context, store Store) (*Feed, error) {
	var data FeedData
	var err error

	if data.Calendars, err = store.Calendars(ctx); err != nil {
		return nil, fmt.Errorf("loading calendars: %w", err)
	}
	if data.Exceptions, err = store.CalendarExceptions(ctx); err != nil {
		return nil, fmt.Errorf("loading calendar exceptions: %w", err)
	}
	if data.Routes, err = store.Routes(ctx); err != nil {
		return nil, fmt.Errorf("loading routes: %w", err)
	}
	if data.Trips, err = store.Trips(ctx); err != nil {
		return nil, fmt.Errorf("loading trips: %w", err)
	}
	if data.StopTimes, err = store.StopTimes(ctx); err != nil {
		return nil, fmt.Errorf("loading stop times: %w", err)
	}
	if data.Frequencies, err = store.Frequencies(ctx); err != nil {
		return nil, fmt.Errorf("loading frequencies: %w", err)
	}
	if data.Runs, err = store.Runs(ctx); err != nil {
		return nil, fmt.Errorf("loading runs: %w", err)
	}
	if data.RunSchedules, err = store.RunScheduleElements(ctx); err != nil {
		return nil, fmt.Errorf("loading run schedules: %w", err)
	}

	return NewFeed(data)
}

// NewFeed indexes data. Calendars that end before they start are skipped with
// a warning. It fails with a *ConfigurationError when there are no valid
// calendars and no calendar exceptions at all.
func NewFeed(data FeedData) (*Feed, error) {
	calendars, calendarWarnings := validCalendars(data.Calendars)
	if len(calendars) == 0 && len(data.Exceptions) == 0 {
		return nil, &ConfigurationError{Reason: "the schedule has neither calendars nor calendar exceptions"}
	}

	f := &Feed{
		resolver:    NewResolver(calendars, data.Exceptions),
		trips:       make(map[string]models.Trip, len(data.Trips)),
		routes:      make(map[string]models.Route, len(data.Routes)),
		warnings:    calendarWarnings,
		frequencies: make(map[string][]models.FrequencyWindow),
		byDeparture: make(map[models.ElementID][]entry),
		byArrival:   make(map[models.ElementID][]entry),
		freqVisits:  make(map[models.ElementID][]frequencyVisit),
	}

	for _, r := range data.Routes {
		f.routes[r.ID] = r
	}

	var tripOrder []string
	for _, t := range data.Trips {
		if _, dup := f.trips[t.ID]; dup {
			f.warnings = append(f.warnings, warnings.DuplicateTripID{TripID: t.ID})
			continue
		}
		if _, ok := f.routes[t.RouteID]; !ok {
			f.warnings = append(f.warnings, warnings.OrphanRoute{TripID: t.ID, RouteID: t.RouteID})
		}
		f.trips[t.ID] = t
		tripOrder = append(tripOrder, t.ID)
	}

	tripTemplates := buildTemplates(data.StopTimes)
	runTemplates := buildTemplates(data.RunSchedules)

	for _, w := range data.Frequencies {
		f.frequencies[w.TripID] = append(f.frequencies[w.TripID], w)
	}

	elementSet := make(map[models.ElementID]struct{})

	for _, tripID := range tripOrder {
		trip := f.trips[tripID]
		tmpl := tripTemplates[tripID]
		if tmpl == nil {
			continue
		}
		mode := f.routeType(trip.RouteID)

		if windows, ok := f.frequencies[tripID]; ok {
			f.indexFrequencyTrip(trip, tmpl, mode, windows, elementSet)
			continue
		}
		f.indexInstance(&instance{
			id:        trip.ID,
			tripID:    trip.ID,
			serviceID: trip.ServiceID,
			routeID:   trip.RouteID,
			mode:      mode,
			tmpl:      tmpl,
		}, elementSet)
	}

	for _, run := range data.Runs {
		tmpl := runTemplates[run.ScheduleID]
		if tmpl == nil {
			f.warnings = append(f.warnings, warnings.OrphanRunSchedule{RunID: run.ID, ScheduleID: run.ScheduleID})
			continue
		}
		f.indexInstance(&instance{
			id:        run.ID,
			tripID:    run.ID,
			serviceID: run.CalendarID,
			routeID:   run.RouteID,
			mode:      f.routeType(run.RouteID),
			tmpl:      tmpl,
			shift:     run.StartSeconds(),
			run:       true,
		}, elementSet)
	}

	for el := range f.byDeparture {
		sortEntries(f.byDeparture[el], func(e entry) int { return e.departure })
		sortEntries(f.byArrival[el], func(e entry) int { return e.arrival })
	}

	for el := range elementSet {
		f.elements = append(f.elements, el)
	}
	sort.Slice(f.elements, func(i, j int) bool { return lessElement(f.elements[i], f.elements[j]) })

	return f, nil
}

func validCalendars(rows []models.ServiceCalendar) ([]models.ServiceCalendar, []warnings.Warning) {
	valid := make([]models.ServiceCalendar, 0, len(rows))
	var diags []warnings.Warning
	for _, c := range rows {
		if err := c.Validate(); err != nil {
			diags = append(diags, warnings.InvalidCalendar{ServiceID: c.ServiceID, Reason: err.Error()})
			continue
		}
		valid = append(valid, c)
	}
	return valid, diags
}

func buildTemplates(rows []models.ScheduleElement) map[string]*template {
	grouped := make(map[string][]models.ScheduleElement)
	for _, row := range rows {
		grouped[row.OwnerID] = append(grouped[row.OwnerID], row)
	}
	templates := make(map[string]*template, len(grouped))
	for owner, elements := range grouped {
		templates[owner] = &template{ownerID: owner, elements: sortedElements(elements)}
	}
	return templates
}

func (f *Feed) routeType(routeID string) models.RouteType {
	if r, ok := f.routes[routeID]; ok {
		return r.Type
	}
	return models.UnknownRouteType
}

// visits lists every stop and every consecutive-stop segment of a template.
func (t *template) visits(mode models.RouteType) []visit {
	out := make([]visit, 0, 2*len(t.elements))
	for i, el := range t.elements {
		out = append(out, visit{
			element:   models.ElementID{Kind: models.StopElement, StopID: el.StopID},
			departure: el.Departure,
			arrival:   el.Arrival,
		})
		if i == 0 {
			continue
		}
		prev := t.elements[i-1]
		out = append(out, visit{
			element: models.ElementID{
				Kind:       models.SegmentElement,
				FromStopID: prev.StopID,
				ToStopID:   el.StopID,
				Mode:       mode,
			},
			departure: prev.Departure,
			arrival:   el.Arrival,
		})
	}
	return out
}

func (f *Feed) indexInstance(inst *instance, elementSet map[models.ElementID]struct{}) {
	for _, v := range inst.tmpl.visits(inst.mode) {
		e := entry{departure: v.departure + inst.shift, arrival: v.arrival + inst.shift, inst: inst}
		f.byDeparture[v.element] = append(f.byDeparture[v.element], e)
		f.byArrival[v.element] = append(f.byArrival[v.element], e)
		elementSet[v.element] = struct{}{}
		f.maxOffset = max(f.maxOffset, e.departure, e.arrival)
	}
}

func (f *Feed) indexFrequencyTrip(trip models.Trip, tmpl *template, mode models.RouteType,
	windows []models.FrequencyWindow, elementSet map[models.ElementID]struct{}) {
	valid, diags := validWindows(windows)
	f.warnings = append(f.warnings, diags...)

	latest := -1
	for _, w := range valid {
		if last, ok := lastStart(w); ok {
			latest = max(latest, last)
		}
	}

	base := tmpl.elements[0].Departure
	for _, v := range tmpl.visits(mode) {
		fv := frequencyVisit{
			trip:            trip,
			departureOffset: v.departure - base,
			arrivalOffset:   v.arrival - base,
		}
		f.freqVisits[v.element] = append(f.freqVisits[v.element], fv)
		elementSet[v.element] = struct{}{}
		if latest >= 0 {
			f.maxOffset = max(f.maxOffset, latest+fv.departureOffset, latest+fv.arrivalOffset)
		}
	}
}

func sortEntries(entries []entry, key func(entry) int) {
	sort.SliceStable(entries, func(i, j int) bool {
		ki, kj := key(entries[i]), key(entries[j])
		if ki != kj {
			return ki < kj
		}
		return entries[i].inst.id < entries[j].inst.id
	})
}

func lessElement(a, b models.ElementID) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.StopID != b.StopID {
		return a.StopID < b.StopID
	}
	if a.FromStopID != b.FromStopID {
		return a.FromStopID < b.FromStopID
	}
	if a.ToStopID != b.ToStopID {
		return a.ToStopID < b.ToStopID
	}
	return a.Mode < b.Mode
}

// Resolver returns the feed's calendar resolver.
func (f *Feed) Resolver() *Resolver {
	return f.resolver
}

// MaxScheduleOffset is the latest scheduled time in the feed, in seconds since
// the service day's midnight.
func (f *Feed) MaxScheduleOffset() int {
	return f.maxOffset
}

// Warnings are the data-quality problems found while indexing.
func (f *Feed) Warnings() []warnings.Warning {
	return append([]warnings.Warning(nil), f.warnings...)
}

// Elements lists the indexed elements of the given kind in a stable order.
func (f *Feed) Elements(kind models.ElementKind) []models.ElementID {
	var out []models.ElementID
	for _, el := range f.elements {
		if el.Kind == kind {
			out = append(out, el)
		}
	}
	return out
}

// HasElement reports whether any trip or run visits el.
func (f *Feed) HasElement(el models.ElementID) bool {
	if _, ok := f.byDeparture[el]; ok {
		return true
	}
	_, ok := f.freqVisits[el]
	return ok
}

func (f *Feed) Trip(id string) (models.Trip, bool) {
	t, ok := f.trips[id]
	return t, ok
}

func (f *Feed) Route(id string) (models.Route, bool) {
	r, ok := f.routes[id]
	return r, ok
}
