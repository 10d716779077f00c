// Package webui serves a plain HTML page for inspecting the loaded schedule
// while developing.
package webui

import (
	"github.com/gtfs-tools/transitaccess/internal/app"
)

type WebUI struct {
	*app.Application
}

func New(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}
