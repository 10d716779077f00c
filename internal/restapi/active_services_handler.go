package restapi

import (
	"net/http"

	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/utils"
)

func (api *RestAPI) activeServicesHandler(w http.ResponseWriter, r *http.Request) {
	day := utils.PathParam(r, "day")

	var fieldErrors map[string][]string
	if err := utils.ValidateDay(day); err != nil {
		fieldErrors = map[string][]string{"day": {err.Error()}}
	}
	mode, fieldErrors := utils.ParseCalendarModeParam(r.URL.Query(), "mode", fieldErrors)
	token, fieldErrors := dayTokenForMode(day, mode, fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	feed, ok := api.currentFeed(w, r)
	if !ok {
		return
	}

	services, diagnostics, err := feed.Resolver().Resolve(token, mode)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	logging.LogWarnings(api.requestLogger(r), "active_services", diagnostics)

	entry := models.ActiveServicesEntry{
		Day:         token.String(),
		Mode:        mode.String(),
		ServiceIDs:  services.IDs(),
		Diagnostics: diagnosticsText(diagnostics),
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewEmptyReferences()))
}
