package models

import "fmt"

// EdgeSource tags where a traversal edge came from in the solver's network.
type EdgeSource int

const (
	SourceStreet EdgeSource = iota
	SourceConnector
	SourceTransitLine
)

func (s EdgeSource) String() string {
	switch s {
	case SourceConnector:
		return "connector"
	case SourceTransitLine:
		return "transit_line"
	}
	return "street"
}

func (s EdgeSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *EdgeSource) UnmarshalText(text []byte) error {
	switch string(text) {
	case "street", "":
		*s = SourceStreet
	case "connector":
		*s = SourceConnector
	case "transit_line":
		*s = SourceTransitLine
	default:
		return fmt.Errorf("unknown edge source %q", string(text))
	}
	return nil
}

// TraversalEdge is one edge of a solved path. Times are in minutes as
// reported by the solver: Cumulative is measured at the end of the edge.
type TraversalEdge struct {
	Source     EdgeSource      `json:"source"`
	Element    ElementID       `json:"element"`
	Cumulative float64         `json:"cumulative"`
	Segment    float64         `json:"segment"`
	RouteID    string          `json:"routeId"`
	Enrichment *EdgeEnrichment `json:"enrichment,omitempty"`
}

// IsTransit reports whether the edge rides a transit line.
func (e TraversalEdge) IsTransit() bool {
	return e.Source == SourceTransitLine && e.Element.Kind == SegmentElement
}

// EdgeEnrichment is written back onto a transit edge when a scheduled
// occurrence was matched. RideTime and WaitTime are minutes.
type EdgeEnrichment struct {
	RideTime     float64 `json:"rideTime"`
	WaitTime     float64 `json:"waitTime"`
	OccurrenceID string  `json:"occurrenceId"`
	TripID       string  `json:"tripId"`
	DayType      DayType `json:"dayType"`
	Departure    int     `json:"departure"`
	Arrival      int     `json:"arrival"`
}
