package restapi

import (
	"log/slog"
	"net/http"

	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/schedule"
	"github.com/gtfs-tools/transitaccess/internal/tripcount"
	"github.com/gtfs-tools/transitaccess/internal/utils"
)

type tripCountRequest struct {
	options     tripcount.Options
	occurrences bool
}

// parseTripCountRequest reads day, start, end, mode, field and occurrences.
// The window defaults to the whole service day.
func parseTripCountRequest(r *http.Request, occurrencesByDefault bool) (tripCountRequest, map[string][]string) {
	query := r.URL.Query()

	var fieldErrors map[string][]string
	day := query.Get("day")
	if err := utils.ValidateDay(day); err != nil {
		fieldErrors = map[string][]string{"day": {err.Error()}}
	}

	start, fieldErrors := utils.ParseClockParam(query, "start", 0, fieldErrors)
	end, fieldErrors := utils.ParseClockParam(query, "end", models.SecondsPerDay, fieldErrors)
	mode, fieldErrors := utils.ParseCalendarModeParam(query, "mode", fieldErrors)
	field, fieldErrors := utils.ParseTimeFieldParam(query, "field", fieldErrors)
	occurrences, fieldErrors := utils.ParseBoolParam(query, "occurrences", occurrencesByDefault, fieldErrors)

	if fieldErrors["start"] == nil && fieldErrors["end"] == nil {
		if err := utils.ValidateWindow(start, end); err != nil {
			fieldErrors = addFieldError(fieldErrors, "end", err.Error())
		}
	}
	token, fieldErrors := dayTokenForMode(day, mode, fieldErrors)
	if len(fieldErrors) > 0 {
		return tripCountRequest{}, fieldErrors
	}

	return tripCountRequest{
		options: tripcount.Options{
			Day:          token,
			CalendarMode: mode,
			Window:       models.TimeWindow{Start: start, End: end},
			Field:        field,
			Kind:         models.StopElement,
		},
		occurrences: occurrences,
	}, nil
}

func addFieldError(fieldErrors map[string][]string, field, msg string) map[string][]string {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}
	fieldErrors[field] = append(fieldErrors[field], msg)
	return fieldErrors
}

// dayTokenForMode parses an already validated day. Specific-date calendars
// need a date, not a weekday name.
func dayTokenForMode(day string, mode models.CalendarMode, fieldErrors map[string][]string) (models.DayToken, map[string][]string) {
	if fieldErrors["day"] != nil || fieldErrors["mode"] != nil {
		return models.DayToken{}, fieldErrors
	}
	token, err := models.ParseDayToken(day)
	if err != nil {
		return models.DayToken{}, addFieldError(fieldErrors, "day", err.Error())
	}
	if mode == models.SpecificDate && !token.IsDate() {
		return models.DayToken{}, addFieldError(fieldErrors, "day", schedule.ErrDateRequired.Error())
	}
	return token, fieldErrors
}

func tripCountEntry(result *tripcount.Result, el models.ElementID, withOccurrences bool) models.TripCountEntry {
	entry := models.TripCountEntry{
		Element:     el,
		WindowStart: utils.FormatClock(result.Window.Start),
		WindowEnd:   utils.FormatClock(result.Window.End),
		Statistics:  result.Summary(el).Model(),
	}
	if withOccurrences {
		entry.Occurrences = result.Occurrences[el]
	}
	return entry
}

func (api *RestAPI) countTrips(w http.ResponseWriter, r *http.Request, feed *schedule.Feed, opts tripcount.Options) (*tripcount.Result, bool) {
	result, err := tripcount.Count(feed, opts)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return nil, false
	}

	logger := logging.WithAnalysis(api.requestLogger(r), result.AnalysisID)
	logging.LogWarnings(logger, "trip_count", result.Diagnostics)
	logging.LogOperation(logger, "trips_counted",
		slog.String("day", opts.Day.String()),
		slog.Int("elements", len(result.Elements)),
		slog.Int("window_start", opts.Window.Start),
		slog.Int("window_end", opts.Window.End))
	return result, true
}

func (api *RestAPI) tripCountsForStopHandler(w http.ResponseWriter, r *http.Request) {
	stopID := utils.PathParam(r, "id")
	if err := utils.ValidateID(stopID); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	req, fieldErrors := parseTripCountRequest(r, true)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	feed, ok := api.currentFeed(w, r)
	if !ok {
		return
	}

	el, err := models.NewStopElement(stopID)
	if err != nil || !feed.HasElement(el) {
		api.sendNotFound(w, r)
		return
	}

	req.options.Elements = []models.ElementID{el}
	result, ok := api.countTrips(w, r, feed, req.options)
	if !ok {
		return
	}

	refs := models.NewReferenceBuilder()
	entry := tripCountEntry(result, el, req.occurrences)
	addOccurrenceReferences(refs, feed, entry.Occurrences)

	api.sendResponse(w, r, models.NewEntryResponse(entry, refs.Build()))
}

func (api *RestAPI) tripCountsHandler(w http.ResponseWriter, r *http.Request) {
	req, fieldErrors := parseTripCountRequest(r, false)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	feed, ok := api.currentFeed(w, r)
	if !ok {
		return
	}

	result, ok := api.countTrips(w, r, feed, req.options)
	if !ok {
		return
	}

	refs := models.NewReferenceBuilder()
	entries := make([]models.TripCountEntry, 0, len(result.Elements))
	for _, el := range result.Elements {
		entry := tripCountEntry(result, el, req.occurrences)
		addOccurrenceReferences(refs, feed, entry.Occurrences)
		entries = append(entries, entry)
	}

	api.sendResponse(w, r, models.NewListResponse(entries, refs.Build()))
}
