package app

import (
	"log/slog"

	"github.com/gtfs-tools/transitaccess/internal/appconf"
	"github.com/gtfs-tools/transitaccess/internal/gtfs"
)

// Application holds the dependencies shared by HTTP handlers and middleware.
type Application struct {
	Config      appconf.Config
	GtfsConfig  gtfs.Config
	Logger      *slog.Logger
	GtfsManager *gtfs.Manager
}
