package schedule

import (
	"sort"

	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

// ServiceSet is the set of service ids active on one day.
type ServiceSet map[string]struct{}

func (s ServiceSet) Contains(serviceID string) bool {
	_, ok := s[serviceID]
	return ok
}

// IDs returns the service ids in sorted order.
func (s ServiceSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolver decides which services run on a given day.
type Resolver struct {
	calendars  []models.ServiceCalendar
	exceptions map[string][]models.CalendarException
}

func NewResolver(calendars []models.ServiceCalendar, exceptions []models.CalendarException) *Resolver {
	byDate := make(map[string][]models.CalendarException)
	for _, e := range exceptions {
		key := models.DateKey(e.Date)
		byDate[key] = append(byDate[key], e)
	}

	sorted := append([]models.ServiceCalendar(nil), calendars...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ServiceID < sorted[j].ServiceID })

	return &Resolver{calendars: sorted, exceptions: byDate}
}

// Resolve returns the services active on day.
//
// In GenericWeekday mode only the weekday flags are used, and calendars that
// run on that weekday but never overlap in time are reported. In SpecificDate
// mode the date must fall inside the calendar's range, then the exceptions for
// that date add or remove services.
func (r *Resolver) Resolve(day models.DayToken, mode models.CalendarMode) (ServiceSet, []warnings.Warning, error) {
	if mode == models.SpecificDate && !day.IsDate() {
		return nil, nil, ErrDateRequired
	}

	active := make(ServiceSet)
	var matched []models.ServiceCalendar
	for _, cal := range r.calendars {
		if !cal.RunsOn(day.Weekday) {
			continue
		}
		if mode == models.SpecificDate && !cal.Covers(day.Date) {
			continue
		}
		active[cal.ServiceID] = struct{}{}
		matched = append(matched, cal)
	}

	if mode == models.GenericWeekday {
		var diags []warnings.Warning
		if w, ok := nonOverlapping(day, matched); ok {
			diags = append(diags, w)
		}
		return active, diags, nil
	}

	for _, e := range r.exceptions[models.DateKey(day.Date)] {
		switch e.Type {
		case models.ServiceAdded:
			active[e.ServiceID] = struct{}{}
		case models.ServiceRemoved:
			delete(active, e.ServiceID)
		}
	}
	return active, nil, nil
}

func nonOverlapping(day models.DayToken, calendars []models.ServiceCalendar) (warnings.NonOverlappingCalendars, bool) {
	w := warnings.NonOverlappingCalendars{Day: day.String()}
	for _, a := range calendars {
		for _, b := range calendars {
			if a.ServiceID == b.ServiceID || !a.StartDate.After(b.EndDate) {
				continue
			}
			if len(w.Pairs) == warnings.MaxReportedCalendarPairs {
				w.Truncated = true
				return w, true
			}
			w.Pairs = append(w.Pairs, warnings.CalendarPair{Later: a.ServiceID, Earlier: b.ServiceID})
		}
	}
	return w, len(w.Pairs) > 0
}
