package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Logging    LoggingConfig    `toml:"logging"`
	Extraction ExtractionConfig `toml:"extraction"`
	Parsing    ParsingConfig    `toml:"parsing"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host               string   `toml:"host"`
	Port               int      `toml:"port"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	ReadTimeoutSeconds int      `toml:"read_timeout_seconds"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json, console
}

// ExtractionConfig represents the document extraction service configuration
type ExtractionConfig struct {
	BaseURL               string `toml:"base_url"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	MaxRetries            int    `toml:"max_retries"`
}

// ParsingConfig represents tunables for navlog layout reconstruction
type ParsingConfig struct {
	RowYTolerance   float64 `toml:"row_y_tolerance"`   // max y distance between tokens on one visual line
	CellGapXMax     float64 `toml:"cell_gap_x_max"`    // max x gap between fragments merged into one cell
	LandingFuelUnit string  `toml:"landing_fuel_unit"` // display unit label, e.g. "100KG"
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			CORSAllowedOrigins: []string{"*"},
			ReadTimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Extraction: ExtractionConfig{
			BaseURL:               "http://localhost:9090",
			RequestTimeoutSeconds: 60,
			MaxRetries:            3,
		},
		Parsing: ParsingConfig{
			RowYTolerance:   2.0,
			CellGapXMax:     10.0,
			LandingFuelUnit: "100KG",
		},
	}
}

// Load loads the configuration from the given path, applying defaults for
// anything the file does not set
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Parsing.RowYTolerance <= 0 {
		return fmt.Errorf("row_y_tolerance must be positive, got %f", c.Parsing.RowYTolerance)
	}
	if c.Parsing.CellGapXMax <= 0 {
		return fmt.Errorf("cell_gap_x_max must be positive, got %f", c.Parsing.CellGapXMax)
	}
	return nil
}
