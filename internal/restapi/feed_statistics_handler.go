package restapi

import (
	"net/http"

	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

func (api *RestAPI) feedStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	feed, ok := api.currentFeed(w, r)
	if !ok {
		return
	}

	counts, err := api.GtfsManager.GtfsDB.TableCounts(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	diagnostics := warnings.NewAggregator()
	diagnostics.Add(feed.Warnings()...)

	entry := models.FeedStatisticsEntry{
		TableCounts:       counts,
		Stops:             len(feed.Elements(models.StopElement)),
		Segments:          len(feed.Elements(models.SegmentElement)),
		MaxScheduleOffset: feed.MaxScheduleOffset(),
		LastUpdated:       api.GtfsManager.LastUpdated().UnixMilli(),
		Diagnostics:       diagnostics.Counts(),
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewEmptyReferences()))
}
