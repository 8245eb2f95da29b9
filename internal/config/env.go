package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by LoadDefaults.
const EnvPrefix = "TIDEMUX"

// Defaults holds command defaults taken from the environment. Explicit
// command line flags take precedence.
type Defaults struct {
	// ByteOrder is read from TIDEMUX_BYTE_ORDER.
	ByteOrder string `envconfig:"BYTE_ORDER" default:"little"`
	// Concurrency is read from TIDEMUX_CONCURRENCY.
	Concurrency int `envconfig:"CONCURRENCY" default:"1"`
	// MetricsFile is read from TIDEMUX_METRICS_FILE.
	MetricsFile string `envconfig:"METRICS_FILE"`
}

// LoadDefaults reads Defaults from the environment.
//
// When envFile is set its variables are loaded first; variables already set
// in the environment win.
func LoadDefaults(envFile string) (*Defaults, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	var d Defaults
	if err := envconfig.Process(EnvPrefix, &d); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if d.Concurrency < 1 {
		return nil, fmt.Errorf("%s_CONCURRENCY must be at least 1, got %d", EnvPrefix, d.Concurrency)
	}

	return &d, nil
}
