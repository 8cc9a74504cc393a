package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// DefaultTimezone is used when no timezone is configured
const DefaultTimezone = "UTC"

// TimezoneDescription documents the timezone field for clients
const TimezoneDescription = "Timezone (e.g., 'America/New_York', 'Europe/London', 'Asia/Tokyo')"

// SessionConfig is the configuration a client supplies for one session.
// Timezone is free-form; it is only checked when the time is requested.
type SessionConfig struct {
	Timezone string `json:"timezone" yaml:"timezone"`
}

// DefaultSessionConfig returns the session configuration used when nothing is supplied
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{Timezone: DefaultTimezone}
}

// ParseSessionConfig decodes a JSON session configuration object.
// A missing or null timezone keeps the value from base, as the config file
// loader does; any other non-string timezone is rejected.
func ParseSessionConfig(data []byte, base SessionConfig) (SessionConfig, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return base, fmt.Errorf("failed to parse session config: %w", err)
	}

	cfg := base
	if v, ok := raw["timezone"]; ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		var tz string
		if err := json.Unmarshal(v, &tz); err != nil {
			return base, fmt.Errorf("timezone must be a string: %w", err)
		}
		cfg.Timezone = tz
	}
	return cfg, nil
}

// SessionSchema returns the JSON Schema describing SessionConfig
func SessionSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]interface{}{
			"timezone": map[string]interface{}{
				"type":        "string",
				"default":     DefaultTimezone,
				"description": TimezoneDescription,
			},
		},
	}
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying cfg
func WithSession(ctx context.Context, cfg SessionConfig) context.Context {
	return context.WithValue(ctx, sessionKey{}, cfg)
}

// SessionFromContext returns the session configuration stored in ctx, if any
func SessionFromContext(ctx context.Context) (SessionConfig, bool) {
	cfg, ok := ctx.Value(sessionKey{}).(SessionConfig)
	return cfg, ok
}
