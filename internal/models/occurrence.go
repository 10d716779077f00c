package models

// Occurrence is a concrete scheduled visit of an element by a trip, a run, or
// one synthetic instance of a frequency-based trip. Departure and Arrival are
// seconds relative to the analysis day's midnight after the day shift.
//
// For a stop element both times refer to the stop. For a segment element
// Departure is at the from-stop and Arrival at the to-stop.
type Occurrence struct {
	ID        string    `json:"id"`
	TripID    string    `json:"tripId"`
	ServiceID string    `json:"serviceId"`
	RouteID   string    `json:"routeId"`
	Element   ElementID `json:"element"`
	Departure int       `json:"departure"`
	Arrival   int       `json:"arrival"`
	DayType   DayType   `json:"dayType"`
	Synthetic bool      `json:"synthetic"`
	Run       bool      `json:"run,omitempty"`
}

// OccurrenceKey deduplicates occurrences: the same trip may be reachable from
// several service days but is one vehicle per day type. Trips and runs have
// separate id namespaces.
type OccurrenceKey struct {
	ID      string
	DayType DayType
	Run     bool
}

func (o Occurrence) Key() OccurrenceKey {
	return OccurrenceKey{ID: o.ID, DayType: o.DayType, Run: o.Run}
}

// RideSeconds is the in-vehicle time across a segment.
func (o Occurrence) RideSeconds() int {
	return o.Arrival - o.Departure
}

// TimeField selects which scheduled time of an occurrence is compared.
type TimeField int

const (
	DepartureTime TimeField = iota
	ArrivalTime
)

func (f TimeField) String() string {
	if f == ArrivalTime {
		return "arrival"
	}
	return "departure"
}

// Of returns the selected time of o.
func (f TimeField) Of(o Occurrence) int {
	if f == ArrivalTime {
		return o.Arrival
	}
	return o.Departure
}
