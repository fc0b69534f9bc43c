package commands

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/colonyops/toaster/internal/core/config"
)

type Flags struct {
	LogLevel     string
	LogFile      string
	ConfigPath   string
	ProfilerPort int

	// Config is loaded in the Before hook. When loading fails the error is
	// kept in ConfigErr so `config validate` can still report it.
	Config    *config.Config
	ConfigErr error
}

// LoadedConfig returns the config loaded at startup or the error that
// prevented loading it.
func (f *Flags) LoadedConfig() (*config.Config, error) {
	if f.ConfigErr != nil {
		return nil, f.ConfigErr
	}
	if f.Config == nil {
		return nil, errors.New("config not loaded")
	}
	return f.Config, nil
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "toaster", "config.yaml")
}
