package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"production"`
	Port string `env:"PORT" envDefault:"8080"`

	HostUser string `env:"HOST_USER"`
	HostPass string `env:"HOST_PASS"`

	DefaultStartingBudget int `env:"DEFAULT_STARTING_BUDGET" envDefault:"1000"`
	DefaultMaxSlots       int `env:"DEFAULT_MAX_SLOTS" envDefault:"6"`
	MinOpeningBid         int `env:"MIN_OPENING_BID" envDefault:"50"`
	RaiseIncrement        int `env:"RAISE_INCREMENT" envDefault:"25"`
	LogTail               int `env:"LOG_TAIL" envDefault:"15"`

	SessionIdleTTL       time.Duration `env:"SESSION_IDLE_TTL" envDefault:"0s"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	CatalogSource  string        `env:"CATALOG_SOURCE" envDefault:"pokeapi"`
	CatalogURL     string        `env:"CATALOG_URL" envDefault:"https://pokeapi.co"`
	CatalogLimit   int           `env:"CATALOG_LIMIT" envDefault:"2000"`
	CatalogFile    string        `env:"CATALOG_FILE"`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`

	ExportEnabled bool   `env:"EXPORT_ENABLED" envDefault:"false"`
	ExportFile    string `env:"EXPORT_FILE" envDefault:"./draft-results.txt"`
}

const (
	CatalogPokeAPI = "pokeapi"
	CatalogFile    = "file"
	CatalogNone    = "none"
)

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("environment variables are invalid: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"DEFAULT_STARTING_BUDGET", c.DefaultStartingBudget},
		{"DEFAULT_MAX_SLOTS", c.DefaultMaxSlots},
		{"MIN_OPENING_BID", c.MinOpeningBid},
		{"RAISE_INCREMENT", c.RaiseIncrement},
	} {
		if f.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", f.name, f.value)
		}
	}
	if c.LogTail < 0 {
		return fmt.Errorf("LOG_TAIL must not be negative, got %d", c.LogTail)
	}
	if c.SessionIdleTTL < 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must not be negative, got %s", c.SessionIdleTTL)
	}
	if c.SessionIdleTTL > 0 && c.SessionSweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive when SESSION_IDLE_TTL is set")
	}
	switch c.CatalogSource {
	case CatalogPokeAPI, CatalogNone:
	case CatalogFile:
		if c.CatalogFile == "" {
			return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=file")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be one of pokeapi, file, none, got %q", c.CatalogSource)
	}
	if (c.HostUser == "") != (c.HostPass == "") {
		return fmt.Errorf("HOST_USER and HOST_PASS must be set together")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// HostAuth reports whether session creation sits behind basic auth.
func (c *Config) HostAuth() bool {
	return c.HostUser != "" && c.HostPass != ""
}
