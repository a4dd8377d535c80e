// Package errors provides custom error types for fieldmap.
// Every failure the insertion layer can report has a sentinel so callers can
// branch with errors.Is, and a typed error carrying the details.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Sentinel errors, one per failure kind.
var (
	// ErrInvalidInput indicates that a record is not a mapping or an option is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingKey indicates that no row key could be derived for a record.
	ErrMissingKey = errors.New("missing row key")

	// ErrRowNotFound indicates that the row key is not present in the dataset.
	ErrRowNotFound = errors.New("row not found")

	// ErrColumnNotFound indicates that a named column does not exist in the dataset.
	ErrColumnNotFound = errors.New("column not found")

	// ErrLoadFailure indicates that a dataset could not be loaded.
	ErrLoadFailure = errors.New("load failure")

	// ErrSaveFailure indicates that a dataset could not be saved.
	ErrSaveFailure = errors.New("save failure")

	// ErrUnsupportedFormat indicates that no codec handles a dataset location.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

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

// MissingKeyError is returned when neither the record nor the caller supplies a row key.
type MissingKeyError struct {
	Column string
}

// Error implements the error interface
func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s must be provided in the record or as a parameter", e.Column)
}

// Is implements errors.Is support
func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey
}

// NewMissingKeyError creates a new MissingKeyError
func NewMissingKeyError(column string) *MissingKeyError {
	return &MissingKeyError{Column: column}
}

// RowNotFoundError is returned when no row carries the requested key.
type RowNotFoundError struct {
	Column string
	Key    string
}

// Error implements the error interface
func (e *RowNotFoundError) Error() string {
	return fmt.Sprintf("row with %s %q not found in dataset", e.Column, e.Key)
}

// Is implements errors.Is support
func (e *RowNotFoundError) Is(target error) bool {
	return target == ErrRowNotFound
}

// NewRowNotFoundError creates a new RowNotFoundError
func NewRowNotFoundError(column, key string) *RowNotFoundError {
	return &RowNotFoundError{Column: column, Key: key}
}

// ColumnNotFoundError is returned when an operation names a column the dataset lacks.
type ColumnNotFoundError struct {
	Column string
}

// Error implements the error interface
func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in dataset", e.Column)
}

// Is implements errors.Is support
func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

// NewColumnNotFoundError creates a new ColumnNotFoundError
func NewColumnNotFoundError(column string) *ColumnNotFoundError {
	return &ColumnNotFoundError{Column: column}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "csv", ...
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
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

// Is implements errors.Is support. Malformed input is invalid input.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidInput
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

// IOError represents a dataset load or save failure.
// Operation "load" matches ErrLoadFailure and "save" matches ErrSaveFailure.
type IOError struct {
	Operation string // "load", "save", "open", "close"
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

// Is implements errors.Is support
func (e *IOError) Is(target error) bool {
	switch e.Operation {
	case "load", "open", "read":
		return target == ErrLoadFailure
	case "save", "write", "create":
		return target == ErrSaveFailure
	}
	return false
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

// UnsupportedFormatError is returned when a dataset location has no codec.
type UnsupportedFormatError struct {
	Path string
}

// Error implements the error interface
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no dataset codec for %q (supported: .csv, .tsv, .xlsx, sqlite://)", e.Path)
}

// Is implements errors.Is support
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
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

// Helper functions for error checking

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMissingKey checks if an error is a missing row key error
func IsMissingKey(err error) bool {
	return errors.Is(err, ErrMissingKey)
}

// IsRowNotFound checks if an error is a row not found error
func IsRowNotFound(err error) bool {
	return errors.Is(err, ErrRowNotFound)
}

// IsLoadFailure checks if an error is a dataset load failure
func IsLoadFailure(err error) bool {
	return errors.Is(err, ErrLoadFailure)
}

// IsSaveFailure checks if an error is a dataset save failure
func IsSaveFailure(err error) bool {
	return errors.Is(err, ErrSaveFailure)
}

// IsUnsupportedFormat checks if an error is an unsupported dataset format error
func IsUnsupportedFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}

// Kind returns a short machine-readable name for the failure kind of err.
// Load and save failures take precedence over the cause they wrap.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLoadFailure):
		return "load_failure"
	case errors.Is(err, ErrSaveFailure):
		return "save_failure"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrMissingKey):
		return "missing_key"
	case errors.Is(err, ErrRowNotFound):
		return "row_not_found"
	case errors.Is(err, ErrColumnNotFound):
		return "column_not_found"
	default:
		return "unknown"
	}
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

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
