// Package errors provides custom error types for the modelscout engine.
// These errors enable programmatic error checking across the discovery
// facade boundary: callers can distinguish quota exhaustion, rate limiting,
// source timeouts, and plain validation failures.
package errors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As.
func As(err error, target any) bool { return errors.As(err, target) }

// Unwrap returns the result of calling the Unwrap method on err.
// It's an alias for the standard library errors.Unwrap.
func Unwrap(err error) error { return errors.Unwrap(err) }

// Common sentinel errors for the modelscout engine.
var (
	// ErrNotFound indicates that a requested model or variant was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrQuotaExceeded indicates the caller has exhausted its quota for the
	// current period.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrRateLimited indicates a source's request rate limit was hit.
	ErrRateLimited = errors.New("rate limited")

	// ErrSourceUnavailable indicates that a catalog source is temporarily
	// unavailable and no cached data exists to fall back on.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = errors.New("operation canceled")
)

// QuotaError is returned when a caller's search/analysis quota is exhausted.
// It carries the point at which the quota window resets.
type QuotaError struct {
	Caller     string
	Limit      int
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota of %d exceeded for caller %s (retry after %s)",
		e.Limit, e.Caller, e.RetryAfter.Round(time.Second))
}

// Is implements errors.Is support.
func (e *QuotaError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// RateLimitError is returned when a source's rate limit is hit and no cached
// data was available. Denial is non-fatal: callers fall back to other sources
// or surface the suggested retry time.
type RateLimitError struct {
	Source     string
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("source %s rate limited (retry after %s)",
		e.Source, e.RetryAfter.Round(time.Second))
}

// Is implements errors.Is support.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// UnavailableError is returned when every source failed and no cache exists.
// RetryAfter is the earliest suggested retry across the failed sources.
type UnavailableError struct {
	Sources    []string
	RetryAfter time.Duration
	Err        error
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("all sources unavailable %v (retry after %s)",
		e.Sources, e.RetryAfter.Round(time.Second))
}

// Unwrap implements errors.Unwrap.
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// NotFoundError represents an error when a model or variant is not found.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a caller error: invalid query parameters or
// malformed identifiers. Never retried internally.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// APIError represents an error from a catalog source API.
type APIError struct {
	Source     string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrSourceUnavailable
	}
	return false
}

// ConfigError represents a configuration error: unknown source IDs, scorer
// weights that do not sum to one, a missing hardware provider. Configuration
// is validated at construction; a ConfigError is never surfaced mid-request.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TimeoutError represents an operation timeout.
type TimeoutError struct {
	Operation string
	Duration  time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Duration > 0 {
		return fmt.Sprintf("operation %s timed out after %s", e.Operation, e.Duration)
	}
	return fmt.Sprintf("operation %s timed out", e.Operation)
}

// Is implements errors.Is support.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// ParseError represents an error when parsing a source response.
type ParseError struct {
	Format  string // "json", "yaml"
	Source  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s parse error from %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking.

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsQuotaExceeded checks if an error is a quota exhaustion error.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// IsRateLimited checks if an error is a rate limit error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsSourceUnavailable checks if an error indicates source unavailability.
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error. Context
// cancellation counts; callers use this to suppress error output on an
// interrupted run.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

// Helper wrapping functions for common patterns.

// WrapValidation wraps an error as a ValidationError.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapParse wraps an error as a ParseError.
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Source: source, Message: err.Error(), Err: err}
}

// WrapAPI wraps an error as an APIError.
func WrapAPI(source string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Source:     source,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
