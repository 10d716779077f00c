package appconf

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the API server and the command-line tool.
type Config struct {
	Env              Environment `yaml:"-"`
	EnvName          string      `yaml:"env" validate:"omitempty,oneof=development test production prod"`
	Port             int         `yaml:"port" validate:"gte=0,lte=65535"`
	ApiKeys          []string    `yaml:"apiKeys" validate:"dive,required"`
	RateLimit        int         `yaml:"rateLimit" validate:"gte=0"`
	DBPath           string      `yaml:"dbPath" validate:"required"`
	GtfsURL          string      `yaml:"gtfsUrl" validate:"omitempty,url"`
	GtfsFile         string      `yaml:"gtfsFile"`
	RunsFile         string      `yaml:"runsFile"`
	RunSchedulesFile string      `yaml:"runSchedulesFile"`
	Verbose          bool        `yaml:"verbose"`
	LogFormat        string      `yaml:"logFormat" validate:"omitempty,oneof=json text"`
}

// Default returns the configuration used when neither flags nor a file override it.
func Default() Config {
	return Config{
		Env:       Development,
		EnvName:   Development.String(),
		Port:      4000,
		ApiKeys:   []string{"test"},
		RateLimit: 100,
		DBPath:    "transitaccess.db",
		LogFormat: "text",
	}
}

// LoadFile reads a YAML configuration file on top of base and validates the result.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.EnvName != "" {
		cfg.Env = EnvFlagToEnvironment(cfg.EnvName)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and the test-environment database rule.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Env == Test && c.DBPath != ":memory:" {
		return fmt.Errorf("invalid configuration: test environment must use an in-memory database, got %q", c.DBPath)
	}
	return nil
}

// LoadDotEnv loads a .env file when one exists. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides settings from TRANSITACCESS_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TRANSITACCESS_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("TRANSITACCESS_GTFS_URL"); v != "" {
		c.GtfsURL = v
	}
	if v := os.Getenv("TRANSITACCESS_API_KEYS"); v != "" {
		c.ApiKeys = SplitKeys(v)
	}
	if v := os.Getenv("TRANSITACCESS_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("TRANSITACCESS_ENV"); v != "" {
		c.EnvName = v
		c.Env = EnvFlagToEnvironment(v)
	}
}

// SplitKeys parses a comma separated key list, dropping blanks.
func SplitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
