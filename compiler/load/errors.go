package load

import (
	"errors"
	"strings"
)

// Sentinel errors for loader failures.
var (
	// ErrInvalidSchema indicates a malformed schema file.
	ErrInvalidSchema = errors.New("crouton: invalid schema file")
	// ErrInvalidConfig indicates a malformed project config.
	ErrInvalidConfig = errors.New("crouton: invalid project config")
)

// SchemaFileError reports a problem in one schema file, pointing at the
// offending field when one is known.
type SchemaFileError struct {
	File    string
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaFileError) Error() string {
	var b strings.Builder
	b.WriteString("crouton: schema error")
	if e.File != "" {
		b.WriteString(" in ")
		b.WriteString(e.File)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
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
func (e *SchemaFileError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error.
func (e *SchemaFileError) Is(target error) bool { return target == ErrInvalidSchema }

// ConfigFileError reports a problem in the project config file.
type ConfigFileError struct {
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigFileError) Error() string {
	var b strings.Builder
	b.WriteString("crouton: config error")
	if e.File != "" {
		b.WriteString(" in ")
		b.WriteString(e.File)
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
func (e *ConfigFileError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error.
func (e *ConfigFileError) Is(target error) bool { return target == ErrInvalidConfig }

// IsSchemaFileError reports whether err is a SchemaFileError.
func IsSchemaFileError(err error) bool {
	var e *SchemaFileError
	return errors.As(err, &e)
}

// IsConfigFileError reports whether err is a ConfigFileError.
func IsConfigFileError(err error) bool {
	var e *ConfigFileError
	return errors.As(err, &e)
}
