// Package gen is the generator core: it normalizes loaded collections
// into a graph, fans out to the registered emitters, and writes the
// resulting artifacts into the layer tree.
package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("crouton: missing configuration")
	// ErrReservedName indicates a user field colliding with a reserved
	// system field.
	ErrReservedName = errors.New("crouton: reserved field name")
	// ErrEmitFailed indicates an emitter failure.
	ErrEmitFailed = errors.New("crouton: emit failed")
	// ErrWriteFailed indicates an artifact write failure.
	ErrWriteFailed = errors.New("crouton: write failed")
	// ErrExists indicates an output file that already exists and
	// --force was not passed.
	ErrExists = errors.New("crouton: output file exists")
)

// ConfigError represents a generator configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("crouton: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("crouton: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error.
func (e *ConfigError) Is(target error) bool { return target == ErrMissingConfig }

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// ReservedNameError reports a user-declared field whose name collides
// with a reserved system field. Collisions abort generation instead of
// silently dropping the field.
type ReservedNameError struct {
	Collection string
	Field      string
}

// Error implements the error interface.
func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("crouton: collection %q declares reserved field name %q", e.Collection, e.Field)
}

// Is reports whether the target matches the sentinel error.
func (e *ReservedNameError) Is(target error) bool { return target == ErrReservedName }

// EmitError represents a failure inside one emitter.
type EmitError struct {
	Emitter    string
	Collection string
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *EmitError) Error() string {
	var b strings.Builder
	b.WriteString("crouton: emit error")
	if e.Emitter != "" {
		b.WriteString(" in ")
		b.WriteString(e.Emitter)
	}
	if e.Collection != "" {
		b.WriteString(" for ")
		b.WriteString(e.Collection)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *EmitError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error.
func (e *EmitError) Is(target error) bool { return target == ErrEmitFailed }

// NewEmitError creates a new EmitError.
func NewEmitError(emitter, collection, message string, cause error) *EmitError {
	return &EmitError{Emitter: emitter, Collection: collection, Message: message, Cause: cause}
}

// WriteError represents a failure writing one artifact.
type WriteError struct {
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	var b strings.Builder
	b.WriteString("crouton: write error")
	if e.Path != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error.
func (e *WriteError) Is(target error) bool { return target == ErrWriteFailed }

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsReservedNameError reports whether the error is a ReservedNameError.
func IsReservedNameError(err error) bool {
	var e *ReservedNameError
	return errors.As(err, &e)
}

// IsEmitError reports whether the error is an EmitError.
func IsEmitError(err error) bool {
	var e *EmitError
	return errors.As(err, &e)
}

// IsWriteError reports whether the error is a WriteError.
func IsWriteError(err error) bool {
	var e *WriteError
	return errors.As(err, &e)
}
