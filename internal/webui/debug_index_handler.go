package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"github.com/gtfs-tools/transitaccess/internal/models"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dataTypes = []string{"warnings", "stops", "segments", "tables", "import", "services", "config"}

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	dataStruct := debugData{
		Title:     title,
		Pre:       spew.Sdump(data),
		DataTypes: dataTypes,
	}
	if err := debugTemplate.Execute(w, dataStruct); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.GtfsManager == nil || webUI.GtfsManager.Feed() == nil {
		writeDebugData(w, "No schedule loaded", map[string]string{"error": "the GTFS manager has not loaded a feed"})
		return
	}
	feed := webUI.GtfsManager.Feed()
	query := r.URL.Query()

	var data interface{}
	var title string

	switch query.Get("dataType") {
	case "warnings":
		data = feed.Warnings()
		title = "Schedule - Data Quality Warnings"
	case "stops":
		data = feed.Elements(models.StopElement)
		title = "Schedule - Stops"
	case "segments":
		data = feed.Elements(models.SegmentElement)
		title = "Schedule - Line Segments"
	case "tables":
		counts, err := webUI.GtfsManager.GtfsDB.TableCounts(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data = counts
		title = "Database - Table Counts"
	case "import":
		meta, err := webUI.GtfsManager.GtfsDB.ImportMetadata(r.Context())
		if err != nil {
			data = map[string]string{"error": err.Error()}
		} else {
			data = meta
		}
		title = "Database - Last Import"
	case "services":
		day, err := models.ParseDayToken(query.Get("day"))
		if err != nil {
			data = map[string]string{"error": "add &day=YYYY-MM-DD or &day=Monday"}
			title = "Schedule - Active Services"
			break
		}
		mode, err := models.ParseCalendarMode(query.Get("mode"))
		if err != nil {
			data = map[string]string{"error": err.Error()}
			title = "Schedule - Active Services"
			break
		}
		services, diagnostics, err := feed.Resolver().Resolve(day, mode)
		if err != nil {
			data = map[string]string{"error": err.Error()}
		} else {
			data = map[string]interface{}{"services": services.IDs(), "diagnostics": diagnostics}
		}
		title = "Schedule - Active Services on " + day.String()
	case "config":
		config := webUI.GtfsConfig
		config.Logger = nil
		data = config
		title = "GTFS Manager - Configuration"
	default:
		data = map[string]string{
			"error": "Please use one of the following: warnings, stops, segments, tables, import, services, config.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
