package gtfsdb

import (
	"log/slog"

	"github.com/gtfs-tools/transitaccess/internal/appconf"
)

// Config holds configuration options for the Client
type Config struct {
	DBPath  string              // Path to SQLite database file, or ":memory:"
	Env     appconf.Environment // Test refuses file databases
	Logger  *slog.Logger
	verbose bool
}

func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	return Config{
		DBPath:  dbPath,
		Env:     env,
		verbose: verbose,
	}
}

// WithLogger returns a copy of the config that logs through logger.
func (c Config) WithLogger(logger *slog.Logger) Config {
	c.Logger = logger
	return c
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
