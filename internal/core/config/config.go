// Package config handles configuration loading and validation for toaster.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/toaster/internal/core/styles"
	"github.com/colonyops/toaster/internal/core/toast"
)

// Config holds the application configuration.
type Config struct {
	Toasts ToastsConfig `yaml:"toasts"`
	Server ServerConfig `yaml:"server"`
	TUI    TUIConfig    `yaml:"tui"`
	Kafka  KafkaConfig  `yaml:"kafka"`
}

// ToastsConfig controls the toast store.
type ToastsConfig struct {
	Limit       int           `yaml:"limit"`        // max toasts held at once
	RemoveDelay time.Duration `yaml:"remove_delay"` // dismissal to removal
}

// ServerConfig controls the HTTP control surface.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"` // websocket origins; empty = same host only
	NotifyRate     float64       `yaml:"notify_rate"`     // POST /toasts per second; 0 = unlimited
	NotifyBurst    int           `yaml:"notify_burst"`
}

// TUIConfig controls the terminal toaster.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// KafkaConfig controls the optional Kafka ingest consumer. Ingest is off
// while Brokers is empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Group   string   `yaml:"group"`
}

// Enabled reports whether the Kafka consumer should run.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Toasts: ToastsConfig{
			Limit:       toast.DefaultLimit,
			RemoveDelay: toast.DefaultRemoveDelay,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 30 * time.Second,
			NotifyBurst:    1,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
		Kafka: KafkaConfig{
			Topic: "toasts",
			Group: "toaster",
		},
	}
}

// Load reads and validates configuration from the given path. If configPath
// is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg, err := Parse(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Parse reads configuration from the given path and fills defaults without
// validating it.
func Parse(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Toasts.Limit == 0 {
		c.Toasts.Limit = defaults.Toasts.Limit
	}
	if c.Toasts.RemoveDelay == 0 {
		c.Toasts.RemoveDelay = defaults.Toasts.RemoveDelay
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = defaults.Server.RequestTimeout
	}
	if c.Server.NotifyBurst == 0 {
		c.Server.NotifyBurst = defaults.Server.NotifyBurst
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = defaults.Kafka.Topic
	}
	if c.Kafka.Group == "" {
		c.Kafka.Group = defaults.Kafka.Group
	}
}

// StoreOptions returns the toast store options described by the config.
func (c *Config) StoreOptions() []toast.Option {
	return []toast.Option{
		toast.WithLimit(c.Toasts.Limit),
		toast.WithRemoveDelay(c.Toasts.RemoveDelay),
	}
}
