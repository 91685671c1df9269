// Package config loads the connection defaults used when no bind-time
// argument overrides them: broker URL, connect/fetch timeouts, and log
// level. These are process-wide defaults, distinct from BindRecord which
// is per-query.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds process-wide scan defaults.
type Config struct {
	BrokerURL      string        `yaml:"broker_url"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	LogLevel       string        `yaml:"log_level"`
}

// Default returns the built-in configuration used when no file or
// environment override is present.
func Default() *Config {
	return &Config{
		BrokerURL:      "nats://localhost:4222",
		ConnectTimeout: 5 * time.Second,
		FetchTimeout:   10 * time.Second,
		LogLevel:       "info",
	}
}

// Load reads configuration from path if non-empty, falling back to the
// built-in default when the file does not exist. Environment variables
// NATSCAN_URL and NATSCAN_LOG_LEVEL override whatever was loaded.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if url := os.Getenv("NATSCAN_URL"); url != "" {
		cfg.BrokerURL = url
	}
	if level := os.Getenv("NATSCAN_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}
