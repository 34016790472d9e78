// Package errors provides structured error handling for meterexporter.
// It defines error codes and error types that carry enough context for the
// HTTP layer to choose a status code and for logs to say what went wrong.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents different types of errors that can occur.
type ErrorCode string

const (
	// General errors.
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeConfiguration ErrorCode = "CONFIGURATION"

	// Request errors.
	CodeMissingField ErrorCode = "MISSING_FIELD"
	CodeInvalidBody  ErrorCode = "INVALID_BODY"

	// Catalog errors.
	CodeMetricConflict ErrorCode = "METRIC_CONFLICT"
	CodeInvalidMetric  ErrorCode = "INVALID_METRIC"
)

// RequestError represents a rejected ingestion request.
type RequestError struct {
	Code    ErrorCode
	Message string
	Fields  []string
	Cause   error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// NewMissingFieldError creates an error listing the required fields that were absent.
func NewMissingFieldError(fields ...string) *RequestError {
	return &RequestError{
		Code:    CodeMissingField,
		Message: "Missing required fields",
		Fields:  fields,
	}
}

// WrapInvalidBodyError wraps a decode failure of the request body.
func WrapInvalidBodyError(err error) *RequestError {
	return &RequestError{
		Code:    CodeInvalidBody,
		Message: "Invalid JSON body",
		Cause:   err,
	}
}

// CatalogError represents a failure to create or register a metric series.
type CatalogError struct {
	Code    ErrorCode
	Message string
	Metric  string
	Cause   error
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	if e.Metric != "" {
		return fmt.Sprintf("[%s] %s (metric: %s)", e.Code, e.Message, e.Metric)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// NewCatalogError creates a catalog error for the named metric.
func NewCatalogError(code ErrorCode, message, metric string) *CatalogError {
	return &CatalogError{
		Code:    code,
		Message: message,
		Metric:  metric,
	}
}

// WrapCatalogError wraps an existing error as a catalog error.
func WrapCatalogError(code ErrorCode, message, metric string, err error) *CatalogError {
	return &CatalogError{
		Code:    code,
		Message: message,
		Metric:  metric,
		Cause:   err,
	}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Code    ErrorCode
	Message string
	Field   string
	Value   interface{}
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigFieldError creates a configuration error for a specific field.
func NewConfigFieldError(code ErrorCode, message, field string, value interface{}) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Field:   field,
		Value:   value,
	}
}

// WrapConfigError wraps an existing error as a configuration error.
func WrapConfigError(code ErrorCode, message string, err error) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// GetCode extracts the error code from the first coded error in err's chain.
func GetCode(err error) ErrorCode {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Code
	}
	var catErr *CatalogError
	if errors.As(err, &catErr) {
		return catErr.Code
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Code
	}
	return CodeUnknown
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && GetCode(err) == code
}

// IsClientError reports whether err was caused by the request rather than the server.
func IsClientError(err error) bool {
	switch GetCode(err) {
	case CodeMissingField, CodeInvalidBody:
		return true
	default:
		return false
	}
}

// MissingFields returns the missing field names carried by err, if any.
func MissingFields(err error) []string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Code == CodeMissingField {
		return reqErr.Fields
	}
	return nil
}

// ErrConfigInvalid creates an error for invalid configuration.
func ErrConfigInvalid(field string, value interface{}) *ConfigError {
	return NewConfigFieldError(CodeValidation, "Invalid configuration value", field, value)
}

// ErrConfigMissing creates an error for missing required configuration.
func ErrConfigMissing(field string) *ConfigError {
	return NewConfigFieldError(CodeConfiguration, "Required configuration field missing", field, nil)
}
