package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path. It applies default values, validates the configuration, and
// returns any errors.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow
// the naming convention SKIFF_SECTION_FIELD (e.g.,
// SKIFF_EXPORT_PAGE_SIZE) and always take precedence over file-based
// configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after env overrides: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with all defaults applied and
// no file loaded.
func DefaultConfig() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt64 := func(key string, dst *int64) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				*dst = n
			}
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setInt64("SKIFF_EXPORT_PAGE_SIZE", &cfg.Export.PageSize)
	setString("SKIFF_EXPORT_OUTPUT_DIR", &cfg.Export.OutputDir)
	setString("SKIFF_EXPORT_FORMAT", &cfg.Export.Format)
	setString("SKIFF_EXPORT_ID_COLUMN", &cfg.Export.IDColumn)

	setString("SKIFF_SOURCE_PATH", &cfg.Source.Path)
	setString("SKIFF_SOURCE_TABLE", &cfg.Source.Table)
	setString("SKIFF_SOURCE_QUERY", &cfg.Source.Query)
	setString("SKIFF_SOURCE_ORDER_BY", &cfg.Source.OrderBy)

	setString("SKIFF_JOBS_FILE", &cfg.Jobs.File)
	setDuration("SKIFF_JOBS_STEP_TIMEOUT", &cfg.Jobs.StepTimeout)

	setString("SKIFF_SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	setDuration("SKIFF_SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	setString("SKIFF_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	setString("SKIFF_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)

	if v, ok := os.LookupEnv("SKIFF_METRICS_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
}
