package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sammcj/mcp-time-server/types"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigDir  = ".config/mcp-time-server"
	defaultConfigFile = "config.yaml"
)

// Supported transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the complete configuration for the time server
type Config struct {
	// Timezone is the session timezone used when a client does not supply one
	Timezone string `yaml:"timezone"`

	Server struct {
		Transport string `yaml:"transport"`
		Host      string `yaml:"host"`
		Port      int    `yaml:"port"`
		Endpoint  string `yaml:"endpoint"`
	} `yaml:"server"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	Audit struct {
		Enable bool   `yaml:"enable"`
		Path   string `yaml:"path"`
	} `yaml:"audit"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Timezone = DefaultTimezone

	// Server defaults - stdio is what MCP hosts spawn
	cfg.Server.Transport = TransportStdio
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 8081
	cfg.Server.Endpoint = "/mcp"

	cfg.Logging.Level = "info"

	// Audit is off unless asked for
	cfg.Audit.Enable = false
	cfg.Audit.Path = "audit.db"

	return cfg
}

// Debug reports whether debug logging is enabled
func (c *Config) Debug() bool {
	return strings.ToLower(c.Logging.Level) == "debug"
}

// Session returns the session configuration the server falls back to
func (c *Config) Session() SessionConfig {
	return SessionConfig{Timezone: c.Timezone}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, defaultConfigDir)
	return filepath.Join(configDir, defaultConfigFile), nil
}

// LoadOrCreate loads the config file at path if it exists, or creates a default one if it doesn't.
// An empty path means the default location under the user's home directory.
func LoadOrCreate(path string) (*Config, bool, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, false, err
		}
	}

	configDir := filepath.Dir(path)
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, false, fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(path); err != nil {
			return nil, false, fmt.Errorf("failed to save default config: %w", err)
		}
		return cfg, true, nil
	}

	cfg, err := Load(path)
	return cfg, false, err
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with default config to ensure all fields have values
	cfg := DefaultConfig()

	// Unmarshal into a temporary map to check if timezone is explicitly blank
	var tempConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &tempConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A null timezone decodes as "" and would shadow the default
	if tz, ok := tempConfig["timezone"]; ok && tz == nil {
		cfg.Timezone = DefaultTimezone
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that required fields are present and valid.
// The timezone is not resolved here; get_current_time reports a bad one.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return &types.ConfigError{
			Field:   "server.transport",
			Message: fmt.Sprintf("must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Server.Transport),
		}
	}

	if c.Server.Transport == TransportHTTP {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			return &types.ConfigError{
				Field:   "server.port",
				Message: fmt.Sprintf("must be between 1 and 65535, got %d", c.Server.Port),
			}
		}
		if !strings.HasPrefix(c.Server.Endpoint, "/") {
			return &types.ConfigError{Field: "server.endpoint", Message: "must start with /"}
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "info", "debug":
	default:
		return &types.ConfigError{
			Field:   "logging.level",
			Message: fmt.Sprintf("must be info or debug, got %q", c.Logging.Level),
		}
	}

	if c.Audit.Enable && c.Audit.Path == "" {
		return &types.ConfigError{Field: "audit.path", Message: "is required when audit is enabled"}
	}

	return nil
}
