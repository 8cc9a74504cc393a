package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sammcj/mcp-time-server/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, "/mcp", cfg.Server.Endpoint)
	assert.False(t, cfg.Audit.Enable)
	assert.False(t, cfg.Debug())
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultSessionConfig(), cfg.Session())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
timezone: Asia/Tokyo
server:
  transport: http
  port: 9000
logging:
  level: DEBUG
audit:
  enable: true
  path: /tmp/audit.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, TransportHTTP, cfg.Server.Transport)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host, "unset fields keep defaults")
	assert.True(t, cfg.Debug())
	assert.True(t, cfg.Audit.Enable)
}

func TestLoadNullTimezoneKeepsDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, "timezone:\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, cfg.Timezone)
}

func TestLoadDoesNotResolveTimezone(t *testing.T) {
	cfg, err := Load(writeConfig(t, "timezone: Mars/Phobos\n"))
	require.NoError(t, err)
	assert.Equal(t, "Mars/Phobos", cfg.Timezone)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"bad transport", "server:\n  transport: carrier-pigeon\n", "server.transport"},
		{"bad port", "server:\n  transport: http\n  port: 70000\n", "server.port"},
		{"bad endpoint", "server:\n  transport: http\n  endpoint: mcp\n", "server.endpoint"},
		{"bad level", "logging:\n  level: trace\n", "logging.level"},
		{"audit without path", "audit:\n  enable: true\n  path: \"\"\n", "audit.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrInvalidConfig))

			var cfgErr *types.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "timezone: [unterminated\n"))
	assert.Error(t, err)
}

func TestLoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	cfg.Timezone = "Europe/Paris"
	require.NoError(t, cfg.Save(path))

	cfg, created, err = LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Europe/Paris", cfg.Timezone)
}

func TestParseSessionConfig(t *testing.T) {
	base := DefaultSessionConfig()

	cfg, err := ParseSessionConfig([]byte(`{"timezone":"Europe/London"}`), base)
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", cfg.Timezone)

	cfg, err = ParseSessionConfig([]byte(`{}`), base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)

	cfg, err = ParseSessionConfig([]byte(`{"timezone":""}`), base)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Timezone, "empty string is passed through for the tool to reject")

	cfg, err = ParseSessionConfig([]byte(`{"timezone":null}`), SessionConfig{Timezone: "Asia/Tokyo"})
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone, "null keeps the base timezone")

	_, err = ParseSessionConfig([]byte(`{"timezone":42}`), base)
	assert.Error(t, err)

	_, err = ParseSessionConfig([]byte(`not json`), base)
	assert.Error(t, err)
}

func TestSessionSchema(t *testing.T) {
	data, err := json.Marshal(SessionSchema())
	require.NoError(t, err)

	var schema struct {
		Type       string `json:"type"`
		Properties map[string]struct {
			Type        string `json:"type"`
			Default     string `json:"default"`
			Description string `json:"description"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &schema))

	assert.Equal(t, "object", schema.Type)
	tz := schema.Properties["timezone"]
	assert.Equal(t, "string", tz.Type)
	assert.Equal(t, "UTC", tz.Default)
	assert.Contains(t, tz.Description, "America/New_York")
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), SessionConfig{Timezone: "Asia/Tokyo"})
	cfg, ok := SessionFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
}
