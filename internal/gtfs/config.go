package gtfs

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gtfs-tools/transitaccess/internal/appconf"
)

type Config struct {
	// GtfsURL is a URL or a local path to a GTFS zip. Empty means serve the
	// feed already stored in the database.
	GtfsURL          string
	RunsFile         string
	RunSchedulesFile string
	GTFSDataPath     string
	Env              appconf.Environment
	Verbose          bool
	Logger           *slog.Logger
	// RefreshInterval controls how often a remote feed is re-downloaded.
	// Zero selects 24 hours.
	RefreshInterval time.Duration
}

// NewConfigFromApp derives the manager configuration from the application config.
func NewConfigFromApp(cfg appconf.Config, logger *slog.Logger) Config {
	source := cfg.GtfsURL
	if cfg.GtfsFile != "" {
		source = cfg.GtfsFile
	}
	return Config{
		GtfsURL:          source,
		RunsFile:         cfg.RunsFile,
		RunSchedulesFile: cfg.RunSchedulesFile,
		GTFSDataPath:     cfg.DBPath,
		Env:              cfg.Env,
		Verbose:          cfg.Verbose,
		Logger:           logger,
	}
}

func (config Config) isLocalFile() bool {
	return !strings.HasPrefix(config.GtfsURL, "http://") && !strings.HasPrefix(config.GtfsURL, "https://")
}

func (config Config) runsEnabled() bool {
	return config.RunsFile != "" && config.RunSchedulesFile != ""
}

func (config Config) refreshInterval() time.Duration {
	if config.RefreshInterval > 0 {
		return config.RefreshInterval
	}
	return 24 * time.Hour
}

func (config Config) logger() *slog.Logger {
	if config.Logger != nil {
		return config.Logger
	}
	return slog.Default()
}
