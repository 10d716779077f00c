package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/traversal"
)

const maxTraversalBodyBytes = 8 << 20

// enrichTraversalRequest is the POST body. Anchor is RFC 3339; its clock time
// and, with calendarMode "date", its date select the schedule.
type enrichTraversalRequest struct {
	Anchor       string                 `json:"anchor"`
	Mode         string                 `json:"mode"`
	CalendarMode string                 `json:"calendarMode"`
	Edges        []models.TraversalEdge `json:"edges"`
}

func (req enrichTraversalRequest) options() (traversal.Options, map[string][]string) {
	var fieldErrors map[string][]string
	addErr := func(key, msg string) {
		if fieldErrors == nil {
			fieldErrors = make(map[string][]string)
		}
		fieldErrors[key] = append(fieldErrors[key], msg)
	}

	var opts traversal.Options
	var err error
	if req.Anchor == "" {
		addErr("anchor", "anchor is required")
	} else if opts.Anchor, err = time.Parse(time.RFC3339, req.Anchor); err != nil {
		addErr("anchor", "anchor must be an RFC 3339 timestamp")
	}
	if opts.Mode, err = traversal.ParseMode(req.Mode); err != nil {
		addErr("mode", err.Error())
	}
	if opts.CalendarMode, err = models.ParseCalendarMode(req.CalendarMode); err != nil {
		addErr("calendarMode", err.Error())
	}
	for i, edge := range req.Edges {
		if !edge.IsTransit() {
			continue
		}
		if err := edge.Element.Validate(); err != nil {
			addErr("edges", fmt.Sprintf("edge %d: %v", i, err))
		}
		if edge.Segment < 0 || edge.Cumulative < 0 {
			addErr("edges", fmt.Sprintf("edge %d: times must not be negative", i))
		}
	}
	return opts, fieldErrors
}

func (api *RestAPI) enrichTraversalHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTraversalBodyBytes)

	var req enrichTraversalRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		msg := "request body must be a JSON traversal"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "request body too large"
		}
		api.validationErrorResponse(w, r, map[string][]string{"body": {msg}})
		return
	}

	opts, fieldErrors := req.options()
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	feed, ok := api.currentFeed(w, r)
	if !ok {
		return
	}

	opts.Logger = api.requestLogger(r)
	result, err := traversal.NewEnricher(feed, opts).Enrich(req.Edges)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	logging.LogWarnings(logging.WithAnalysis(opts.Logger, result.AnalysisID), "enrich_traversal", result.Diagnostics)

	refs := models.NewReferenceBuilder()
	for _, edge := range req.Edges {
		if edge.Enrichment == nil {
			continue
		}
		if trip, ok := feed.Trip(edge.Enrichment.TripID); ok {
			refs.AddTrip(trip)
			if route, ok := feed.Route(trip.RouteID); ok {
				refs.AddRoute(route)
			}
		}
	}

	edges := req.Edges
	if edges == nil {
		edges = []models.TraversalEdge{}
	}
	entry := models.EnrichTraversalEntry{
		AnalysisID:  result.AnalysisID,
		Edges:       edges,
		Enriched:    result.Enriched,
		Unmatched:   result.Unmatched,
		Ambiguous:   result.Ambiguous,
		Diagnostics: diagnosticsText(result.Diagnostics),
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry, refs.Build()))
}
