package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toaster/internal/core/toast"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, fe.Field)
	}
	return names
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, toast.DefaultLimit, cfg.Toasts.Limit)
	assert.Equal(t, toast.DefaultRemoveDelay, cfg.Toasts.RemoveDelay)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
toasts:
  limit: 3
  remove_delay: 5s
server:
  addr: 127.0.0.1:9090
  allowed_origins:
    - http://localhost:3000
  notify_rate: 2.5
tui:
  theme: gruvbox
kafka:
  brokers: [localhost:9092]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Toasts.Limit)
	assert.Equal(t, 5*time.Second, cfg.Toasts.RemoveDelay)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout, "unset fields keep defaults")
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 2.5, cfg.Server.NotifyRate)
	assert.Equal(t, 1, cfg.Server.NotifyBurst)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, "toasts", cfg.Kafka.Topic)
	assert.Equal(t, "toaster", cfg.Kafka.Group)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "toasts: [")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
toasts:
  limit: -1
tui:
  theme: neon
`)

	_, err := Load(path)
	require.Error(t, err)

	names := fieldNames(t, err)
	assert.Contains(t, names, "toasts.limit")
	assert.Contains(t, names, "tui.theme")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{name: "defaults are valid"},
		{
			name:      "negative remove delay",
			mutate:    func(c *Config) { c.Toasts.RemoveDelay = -time.Second },
			wantField: "toasts.remove_delay",
		},
		{
			name:      "bad listen address",
			mutate:    func(c *Config) { c.Server.Addr = "8080" },
			wantField: "server.addr",
		},
		{
			name:      "zero request timeout",
			mutate:    func(c *Config) { c.Server.RequestTimeout = 0 },
			wantField: "server.request_timeout",
		},
		{
			name:   "any origin",
			mutate: func(c *Config) { c.Server.AllowedOrigins = []string{"*"} },
		},
		{
			name:      "negative notify rate",
			mutate:    func(c *Config) { c.Server.NotifyRate = -1 },
			wantField: "server.notify_rate",
		},
		{
			name:      "bad kafka broker",
			mutate:    func(c *Config) { c.Kafka.Brokers = []string{"kafka"} },
			wantField: "kafka.brokers[0]",
		},
		{
			name: "kafka without topic",
			mutate: func(c *Config) {
				c.Kafka.Brokers = []string{"localhost:9092"}
				c.Kafka.Topic = ""
			},
			wantField: "kafka.topic",
		},
		{
			name:      "bad origin",
			mutate:    func(c *Config) { c.Server.AllowedOrigins = []string{"localhost"} },
			wantField: "server.allowed_origins[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldNames(t, err), tt.wantField)
		})
	}
}

func TestValidateFile_Directory(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ValidateFile(t.TempDir())
	assert.Contains(t, fieldNames(t, err), "config_file")
}

func TestStoreOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Toasts.Limit = 4

	s := toast.New(cfg.StoreOptions()...)
	defer s.Close()

	assert.Equal(t, 4, s.Limit())
}

func TestParse_SkipsValidation(t *testing.T) {
	path := writeConfig(t, `
toasts:
  limit: -1
`)

	cfg, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.Toasts.Limit)
	assert.Error(t, cfg.ValidateFile(path))
}
