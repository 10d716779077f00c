package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/gtfs-tools/transitaccess/internal/appconf"
)

// parseConfig layers the configuration: defaults, then the -config YAML file,
// then TRANSITACCESS_* environment variables, then flags given explicitly on
// the command line.
func parseConfig(args []string, stderr io.Writer) (appconf.Config, error) {
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := appconf.Default()
	var (
		configFile  string
		envFile     string
		apiKeysFlag string
		flagged     appconf.Config
	)

	fs.StringVar(&configFile, "config", "", "YAML configuration file")
	fs.StringVar(&envFile, "env-file", ".env", "Optional .env file with TRANSITACCESS_* variables")
	fs.IntVar(&flagged.Port, "port", defaults.Port, "API server port")
	fs.StringVar(&flagged.EnvName, "env", defaults.EnvName, "Environment (development|test|production)")
	fs.StringVar(&apiKeysFlag, "api-keys", "test", "Comma Separated API Keys (test, etc)")
	fs.IntVar(&flagged.RateLimit, "rate-limit", defaults.RateLimit, "Requests per second allowed per API key")
	fs.StringVar(&flagged.DBPath, "db", defaults.DBPath, "SQLite database path, or :memory:")
	fs.StringVar(&flagged.GtfsURL, "gtfs-url", "", "URL for a static GTFS zip file")
	fs.StringVar(&flagged.GtfsFile, "gtfs-file", "", "Local static GTFS zip file, used instead of -gtfs-url")
	fs.StringVar(&flagged.RunsFile, "runs", "", "Runs CSV of the public transit data model")
	fs.StringVar(&flagged.RunSchedulesFile, "run-schedules", "", "Run schedule elements CSV")
	fs.BoolVar(&flagged.Verbose, "verbose", false, "Log every import step")
	fs.StringVar(&flagged.LogFormat, "log-format", defaults.LogFormat, "Log record format (text|json)")

	if err := fs.Parse(args); err != nil {
		return appconf.Config{}, err
	}

	if err := appconf.LoadDotEnv(envFile); err != nil {
		return appconf.Config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg := defaults
	if configFile != "" {
		var err error
		if cfg, err = appconf.LoadFile(configFile, defaults); err != nil {
			return appconf.Config{}, err
		}
	}
	cfg.ApplyEnv()

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = flagged.Port
		case "env":
			cfg.EnvName = flagged.EnvName
		case "api-keys":
			cfg.ApiKeys = appconf.SplitKeys(apiKeysFlag)
		case "rate-limit":
			cfg.RateLimit = flagged.RateLimit
		case "db":
			cfg.DBPath = flagged.DBPath
		case "gtfs-url":
			cfg.GtfsURL = flagged.GtfsURL
		case "gtfs-file":
			cfg.GtfsFile = flagged.GtfsFile
		case "runs":
			cfg.RunsFile = flagged.RunsFile
		case "run-schedules":
			cfg.RunSchedulesFile = flagged.RunSchedulesFile
		case "verbose":
			cfg.Verbose = flagged.Verbose
		case "log-format":
			cfg.LogFormat = flagged.LogFormat
		}
	})
	cfg.Env = appconf.EnvFlagToEnvironment(cfg.EnvName)

	if err := cfg.Validate(); err != nil {
		return appconf.Config{}, err
	}
	return cfg, nil
}
