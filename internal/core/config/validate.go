package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/toaster/internal/core/styles"
)

// Validate checks that the configuration is valid. Every failing field is
// reported; the returned error is a criterio.FieldErrors.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("toasts.limit", c.Toasts.Limit, atLeastOne),
		criterio.Run("toasts.remove_delay", c.Toasts.RemoveDelay, positiveDuration),
		criterio.Run("server.addr", c.Server.Addr, hostPort),
		criterio.Run("server.request_timeout", c.Server.RequestTimeout, positiveDuration),
		c.validateOrigins(),
		criterio.Run("server.notify_rate", c.Server.NotifyRate, nonNegative),
		criterio.Run("server.notify_burst", c.Server.NotifyBurst, atLeastOne),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
		c.validateKafka(),
	)
}

// ValidateFile validates the config file at configPath in addition to the
// loaded values. A missing file is fine: defaults are used.
func (c *Config) ValidateFile(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		c.Validate(),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func (c *Config) validateOrigins() error {
	var errs criterio.FieldErrorsBuilder
	for i, origin := range c.Server.AllowedOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = errs.Append(fmt.Sprintf("server.allowed_origins[%d]", i), fmt.Errorf("invalid origin %q", origin))
		}
	}
	return errs.ToError()
}

func (c *Config) validateKafka() error {
	if !c.Kafka.Enabled() {
		return nil
	}

	var errs criterio.FieldErrorsBuilder
	for i, broker := range c.Kafka.Brokers {
		if err := hostPort(broker); err != nil {
			errs = errs.Append(fmt.Sprintf("kafka.brokers[%d]", i), err)
		}
	}
	if c.Kafka.Topic == "" {
		errs = errs.Append("kafka.topic", errors.New("required when brokers are set"))
	}
	if c.Kafka.Group == "" {
		errs = errs.Append("kafka.group", errors.New("required when brokers are set"))
	}
	return errs.ToError()
}

func nonNegative(f float64) error {
	if f < 0 {
		return fmt.Errorf("must not be negative, got %g", f)
	}
	return nil
}

func atLeastOne(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1, got %d", n)
	}
	return nil
}

func positiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be positive, got %s", d)
	}
	return nil
}

func hostPort(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return nil
}

func knownTheme(name string) error {
	if !slices.Contains(styles.ThemeNames(), name) {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}
