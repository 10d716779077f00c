package models

// ActiveServicesEntry lists the services running on a day.
type ActiveServicesEntry struct {
	Day         string   `json:"day"`
	Mode        string   `json:"mode"`
	ServiceIDs  []string `json:"serviceIds"`
	Diagnostics []string `json:"diagnostics"`
}

// StatisticsModel is the JSON form of an accessibility summary. Headway and
// MaxWait are minutes and null when undefined.
type StatisticsModel struct {
	Count       int     `json:"count"`
	RatePerHour float64 `json:"ratePerHour"`
	Headway     *int    `json:"headway"`
	MaxWait     *int    `json:"maxWait"`
}

// TripCountEntry is the result for one element over one time window.
type TripCountEntry struct {
	Element     ElementID       `json:"element"`
	WindowStart string          `json:"windowStart"`
	WindowEnd   string          `json:"windowEnd"`
	Statistics  StatisticsModel `json:"statistics"`
	Occurrences []Occurrence    `json:"occurrences,omitempty"`
}

// EnrichTraversalEntry is the response of the traversal enrichment endpoint.
type EnrichTraversalEntry struct {
	AnalysisID  string          `json:"analysisId"`
	Edges       []TraversalEdge `json:"edges"`
	Enriched    int             `json:"enriched"`
	Unmatched   int             `json:"unmatched"`
	Ambiguous   int             `json:"ambiguous"`
	Diagnostics []string        `json:"diagnostics"`
}

// FeedStatisticsEntry summarises the loaded schedule. LastUpdated is in
// milliseconds like the response timestamp.
type FeedStatisticsEntry struct {
	TableCounts       map[string]int `json:"tableCounts"`
	Stops             int            `json:"stops"`
	Segments          int            `json:"segments"`
	MaxScheduleOffset int            `json:"maxScheduleOffset"`
	LastUpdated       int64          `json:"lastUpdated"`
	Diagnostics       map[string]int `json:"diagnostics"`
}
