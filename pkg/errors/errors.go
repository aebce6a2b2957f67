// Package errors provides structured error handling for the application
// Following enterprise patterns for error management and observability
package errors

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents an error code
type ErrorCode string

// Common error codes following RESTful API conventions
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// Pipeline failure classes. Every external failure inside the
	// generation pipeline is tagged with one of these before being routed
	// to its fallback, so operators can tell "primary down" from
	// "malformed output" after the fact even though the HTTP response
	// stays uniform.
	CodeConfig      ErrorCode = "CONFIG_ERROR"
	CodeProvider    ErrorCode = "PROVIDER_ERROR"
	CodeParse       ErrorCode = "PARSE_ERROR"
	CodePersistence ErrorCode = "PERSISTENCE_ERROR"

	// Business logic errors
	CodeContextNotFound ErrorCode = "CONTEXT_NOT_FOUND"
	CodeRecipeNotFound  ErrorCode = "RECIPE_NOT_FOUND"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound, CodeContextNotFound, CodeRecipeNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// Predefined error constructors for common scenarios

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewConfigError creates a configuration error for missing AI credentials
// or endpoints. Surfaced as a flat 500 before any network call is made.
func NewConfigError(setting string) *AppError {
	return NewAppError(
		CodeConfig,
		"AI service is not configured",
		fmt.Sprintf("Missing required setting %s", setting),
	).WithMetadata("setting", setting)
}

// NewProviderError creates a provider error carrying the HTTP status and
// response text from an LLM provider
func NewProviderError(provider string, status int, body string) *AppError {
	return NewAppError(
		CodeProvider,
		"LLM provider request failed",
		fmt.Sprintf("%s returned status %d", provider, status),
	).WithMetadata("provider", provider).
		WithMetadata("status", status).
		WithMetadata("body", truncate(body, 500))
}

// NewProviderUnreachableError creates a provider error for transport failures
func NewProviderUnreachableError(provider string, cause error) *AppError {
	return NewAppError(
		CodeProvider,
		"LLM provider unreachable",
		fmt.Sprintf("Failed to reach %s", provider),
	).WithMetadata("provider", provider).WithCause(cause)
}

// NewParseError creates a parse error for malformed LLM output
func NewParseError(provider string, cause error) *AppError {
	return NewAppError(
		CodeParse,
		"LLM response could not be parsed",
		fmt.Sprintf("Assistant output from %s is not the expected JSON shape", provider),
	).WithMetadata("provider", provider).WithCause(cause)
}

// NewPersistenceError creates a persistence error. This is the only failure
// class the generation path lets escape to the HTTP response.
func NewPersistenceError(operation string, cause error) *AppError {
	return NewAppError(
		CodePersistence,
		"Persistence operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewContextNotFoundError creates an error for an unknown mission or module
func NewContextNotFoundError(contextType, contextID string) *AppError {
	return NewAppError(
		CodeContextNotFound,
		"Training context not found",
		fmt.Sprintf("%s with ID %s does not exist", contextType, contextID),
	).WithMetadata("context_type", contextType).WithMetadata("context_id", contextID)
}

// NewRecipeNotFoundError creates a recipe not found error
func NewRecipeNotFoundError(recipeID string) *AppError {
	return NewAppError(
		CodeRecipeNotFound,
		"Recipe not found",
		fmt.Sprintf("Recipe with ID %s does not exist", recipeID),
	).WithMetadata("recipe_id", recipeID)
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in API responses
type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse converts an AppError to an API error response
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			Metadata:  err.Metadata,
			RequestID: requestID,
			Timestamp: fmt.Sprintf("%d", time.Now().Unix()),
		},
	}
}
