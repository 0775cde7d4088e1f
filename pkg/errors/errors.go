// Package errors provides custom error types for the amjd system.
// These errors let callers tell fatal pipeline conditions (an unsupported
// calendar, a source table missing required columns) apart from recoverable
// ones (a missing source file, an unparseable row).
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are re-exported so callers only need one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the amjd system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedSystem indicates a calendar system outside the supported set
	ErrUnsupportedSystem = errors.New("unsupported calendar system")

	// ErrMissingColumns indicates a source table lacks required columns
	ErrMissingColumns = errors.New("missing required columns")

	// ErrSourceMissing indicates a source file does not exist
	ErrSourceMissing = errors.New("source missing")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// UnsupportedSystemError is returned when a calendar name is not one of the
// supported systems. It is never recovered silently.
type UnsupportedSystemError struct {
	System string
}

// Error implements the error interface
func (e *UnsupportedSystemError) Error() string {
	return fmt.Sprintf("unsupported calendar system: %q", e.System)
}

// Is implements errors.Is support
func (e *UnsupportedSystemError) Is(target error) bool {
	return target == ErrUnsupportedSystem
}

// NewUnsupportedSystemError creates a new UnsupportedSystemError
func NewUnsupportedSystemError(system string) *UnsupportedSystemError {
	return &UnsupportedSystemError{System: system}
}

// MissingColumnsError reports required columns absent from a source table.
// Each entry in Missing is a column name or an alias group such as "key|tag|id".
type MissingColumnsError struct {
	Source  string
	Path    string
	Missing []string
	Found   []string
}

// Error implements the error interface
func (e *MissingColumnsError) Error() string {
	where := e.Source
	if e.Path != "" {
		where = fmt.Sprintf("%s (%s)", e.Source, e.Path)
	}
	return fmt.Sprintf("%s: missing required columns [%s]", where, strings.Join(e.Missing, ", "))
}

// Is implements errors.Is support
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// SourceMissingError reports a source file that could not be found.
// Reconciliation treats it as a warning and skips the pass.
type SourceMissingError struct {
	Source string
	Path   string
}

// Error implements the error interface
func (e *SourceMissingError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("source %s not found at %s", e.Source, e.Path)
	}
	return fmt.Sprintf("source not found at %s", e.Path)
}

// Is implements errors.Is support
func (e *SourceMissingError) Is(target error) bool {
	return target == ErrSourceMissing
}

// DateParseError is raised for a malformed civil date or time-of-day.
// It is captured per row and never aborts a batch.
type DateParseError struct {
	Input   string
	Message string
}

// Error implements the error interface
func (e *DateParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Message)
}

// Is implements errors.Is support
func (e *DateParseError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewDateParseError creates a new DateParseError
func NewDateParseError(input, message string) *DateParseError {
	return &DateParseError{Input: input, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "yaml", "json"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "save", "load", "query"
	Resource  string // "event", "index", "run"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// TimeoutError represents an operation timeout
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// WrapTimeout turns an expired context deadline into a TimeoutError for
// operation. Any other error is returned unchanged.
func WrapTimeout(operation string, timeout time.Duration, err error) error {
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	te := &TimeoutError{Operation: operation, Message: err.Error()}
	if timeout > 0 {
		te.Duration = timeout.String()
	}
	return te
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnsupportedSystem checks if an error names an unsupported calendar
func IsUnsupportedSystem(err error) bool {
	return errors.Is(err, ErrUnsupportedSystem)
}

// IsMissingColumns checks if an error reports missing source columns
func IsMissingColumns(err error) bool {
	return errors.Is(err, ErrMissingColumns)
}

// IsSourceMissing checks if an error reports an absent source file
func IsSourceMissing(err error) bool {
	return errors.Is(err, ErrSourceMissing)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
