package config

import (
	"errors"
	"fmt"
	"strings"
)

// Error types of a ConfigurationError.
const (
	ErrorTypeIO         = "io"
	ErrorTypeTemplate   = "template"
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
)

// ConfigurationError represents a structured error found while loading or
// validating the configuration. It is always raised before any remote call.
type ConfigurationError struct {
	FilePath    string   `json:"filePath,omitempty"`    // Desired-state file that caused the error, if any
	Field       string   `json:"field,omitempty"`       // Dotted field name, e.g. server.state
	ErrorType   string   `json:"errorType"`             // io, template, parse or validation
	Message     string   `json:"message"`               // Human-readable error message
	Suggestions []string `json:"suggestions,omitempty"` // Actionable suggestions to fix the error
	Err         error    `json:"-"`                     // Underlying cause
}

// Error implements the error interface
func (ce ConfigurationError) Error() string {
	var b strings.Builder
	if ce.FilePath != "" {
		b.WriteString(ce.FilePath)
		b.WriteString(": ")
	}
	if ce.Field != "" {
		b.WriteString(ce.Field)
		b.WriteString(": ")
	}
	b.WriteString(ce.Message)
	return b.String()
}

// Unwrap returns the underlying cause.
func (ce ConfigurationError) Unwrap() error {
	return ce.Err
}

// DetailedError returns a detailed error message with all context
func (ce ConfigurationError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Configuration error (%s)", ce.ErrorType))
	if ce.FilePath != "" {
		parts = append(parts, fmt.Sprintf("  File: %s", ce.FilePath))
	}
	if ce.Field != "" {
		parts = append(parts, fmt.Sprintf("  Field: %s", ce.Field))
	}
	parts = append(parts, fmt.Sprintf("  Error: %s", ce.Message))

	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, suggestion := range ce.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", suggestion))
		}
	}

	return strings.Join(parts, "\n")
}

// ConfigurationErrorCollection holds multiple configuration errors
type ConfigurationErrorCollection struct {
	Errors []ConfigurationError `json:"errors"`
}

// Error implements the error interface for the collection
func (cec ConfigurationErrorCollection) Error() string {
	if len(cec.Errors) == 0 {
		return "no configuration errors"
	}

	if len(cec.Errors) == 1 {
		return cec.Errors[0].Error()
	}

	return fmt.Sprintf("%d configuration errors: %s (and %d more)",
		len(cec.Errors), cec.Errors[0].Error(), len(cec.Errors)-1)
}

// HasErrors returns true if there are any errors in the collection
func (cec *ConfigurationErrorCollection) HasErrors() bool {
	return len(cec.Errors) > 0
}

// Count returns the number of errors in the collection
func (cec *ConfigurationErrorCollection) Count() int {
	return len(cec.Errors)
}

// Add adds a new error to the collection
func (cec *ConfigurationErrorCollection) Add(err ConfigurationError) {
	cec.Errors = append(cec.Errors, err)
}

// AddValidation records an invalid field.
func (cec *ConfigurationErrorCollection) AddValidation(field, message string, suggestions ...string) {
	cec.Add(ConfigurationError{
		Field:       field,
		ErrorType:   ErrorTypeValidation,
		Message:     message,
		Suggestions: suggestions,
	})
}

// ErrorOrNil returns the collection as an error, or nil when it is empty.
func (cec *ConfigurationErrorCollection) ErrorOrNil() error {
	if !cec.HasErrors() {
		return nil
	}
	return cec
}

// GetDetailedReport returns a detailed report of all errors
func (cec *ConfigurationErrorCollection) GetDetailedReport() string {
	if len(cec.Errors) == 0 {
		return "No configuration errors to report"
	}

	var parts []string
	for _, err := range cec.Errors {
		parts = append(parts, err.DetailedError())
	}
	return strings.Join(parts, "\n")
}

// NewConfigurationErrorCollection creates a new empty error collection
func NewConfigurationErrorCollection() *ConfigurationErrorCollection {
	return &ConfigurationErrorCollection{
		Errors: make([]ConfigurationError, 0),
	}
}

// IsConfigurationError reports whether err is, or wraps, a configuration
// error or a collection of them.
func IsConfigurationError(err error) bool {
	var ce ConfigurationError
	if errors.As(err, &ce) {
		return true
	}
	var cec *ConfigurationErrorCollection
	return errors.As(err, &cec)
}

// DetailedReport returns the most helpful description of a configuration
// error, or "" when err is not one.
func DetailedReport(err error) string {
	var cec *ConfigurationErrorCollection
	if errors.As(err, &cec) {
		return cec.GetDetailedReport()
	}
	var ce ConfigurationError
	if errors.As(err, &ce) {
		return ce.DetailedError()
	}
	return ""
}
