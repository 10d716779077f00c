package restapi

import (
	"net/http"

	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/schedule"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

// currentFeed returns the served feed, or writes a 503 and returns false.
func (api *RestAPI) currentFeed(w http.ResponseWriter, r *http.Request) (*schedule.Feed, bool) {
	if api.GtfsManager == nil {
		api.unavailableResponse(w, r)
		return nil, false
	}
	feed := api.GtfsManager.Feed()
	if feed == nil {
		api.unavailableResponse(w, r)
		return nil, false
	}
	return feed, true
}

func diagnosticsText(ws []warnings.Warning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Error())
	}
	return out
}

// addOccurrenceReferences records the trip and route of every occurrence.
// Runs have no trip row and only contribute their route.
func addOccurrenceReferences(b *models.ReferenceBuilder, feed *schedule.Feed, occs []models.Occurrence) {
	for _, o := range occs {
		if trip, ok := feed.Trip(o.TripID); ok {
			b.AddTrip(trip)
		}
		if route, ok := feed.Route(o.RouteID); ok {
			b.AddRoute(route)
		}
	}
}
