package gen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingConfig is matched by every *ConfigError.
	ErrMissingConfig = errors.New("aqlgen: missing configuration")
	// ErrGenerationFailed is matched by every *GenerationError.
	ErrGenerationFailed = errors.New("aqlgen: code generation failed")
)

// ConfigError reports an invalid or missing configuration setting.
type ConfigError struct {
	Option  string // Config field or option name, e.g. "Target"
	Value   any    // Rejected value, nil when the setting is missing
	Message string
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("aqlgen: config %s: %s", e.Option, e.Message)
	}
	return fmt.Sprintf("aqlgen: config %s=%v: %s", e.Option, e.Value, e.Message)
}

// Is makes errors.Is(err, ErrMissingConfig) hold.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError returns a *ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// GenerationError reports a failure to render or write a builder package.
type GenerationError struct {
	Type    string // Record type name, if any
	File    string // Output path, if any
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	parts := []string{"aqlgen: generate"}
	if e.Type != "" {
		parts[0] += " " + e.Type
	}
	if e.File != "" {
		parts[0] += " (" + e.File + ")"
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrGenerationFailed) hold.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError returns a *GenerationError.
func NewGenerationError(typeName, file, message string, cause error) *GenerationError {
	return &GenerationError{Type: typeName, File: file, Message: message, Cause: cause}
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsGenerationError reports whether err is or wraps a *GenerationError.
func IsGenerationError(err error) bool {
	var target *GenerationError
	return errors.As(err, &target)
}
