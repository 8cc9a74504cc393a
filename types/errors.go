// types/errors.go
package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidTimezone indicates a timezone identifier the database does not know
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrAuditStore indicates the audit log could not be read or written
	ErrAuditStore = errors.New("audit store failed")

	// ErrTransport indicates the MCP transport failed to start or stopped abnormally
	ErrTransport = errors.New("transport failed")
)

// ConfigError wraps configuration-related errors
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error in %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// TimezoneError reports a timezone that could not be resolved
type TimezoneError struct {
	Timezone string
	Err      error
}

func (e *TimezoneError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid timezone %q: %v", e.Timezone, e.Err)
	}
	return fmt.Sprintf("invalid timezone %q", e.Timezone)
}

func (e *TimezoneError) Unwrap() error {
	return ErrInvalidTimezone
}

// AuditError wraps audit store errors
type AuditError struct {
	Operation string
	Message   string
	Err       error
}

func (e *AuditError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audit error during %s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("audit error during %s: %s", e.Operation, e.Message)
}

func (e *AuditError) Unwrap() error {
	return ErrAuditStore
}

// TransportError wraps transport-related errors
type TransportError struct {
	Transport string
	Message   string
	Err       error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error in %s: %s: %v", e.Transport, e.Message, e.Err)
	}
	return fmt.Sprintf("transport error in %s: %s", e.Transport, e.Message)
}

func (e *TransportError) Unwrap() error {
	return ErrTransport
}
