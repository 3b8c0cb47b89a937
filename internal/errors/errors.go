package errors

import (
	stderrors "errors"
	"fmt"
)

// YTError is the structured error type for ytsearch.
// It carries enough context for logging, CLI display and JSON responses.
type YTError struct {
	// Code is the unique error code (e.g., "ERR_304_API_STATUS").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates the failure is transient.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *YTError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *YTError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a YTError with the same code.
func (e *YTError) Is(target error) bool {
	if t, ok := target.(*YTError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *YTError) WithDetail(key, value string) *YTError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *YTError) WithSuggestion(suggestion string) *YTError {
	e.Suggestion = suggestion
	return e
}

// New creates a new YTError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *YTError {
	return &YTError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a YTError from an existing error.
// The error's message becomes the YTError message.
func Wrap(code string, err error) *YTError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *YTError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// NetworkError creates a transport error.
func NetworkError(message string, cause error) *YTError {
	return New(ErrCodeNetworkUnavailable, message, cause)
}

// APIError creates an error for a non-success response from the remote API.
// The response body becomes the message.
func APIError(status int, body string) *YTError {
	return New(ErrCodeAPIStatus, body, nil).
		WithDetail("status", fmt.Sprintf("%d", status))
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *YTError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *YTError {
	return New(ErrCodeInternal, message, cause)
}

// As returns the first YTError in err's chain.
func As(err error) (*YTError, bool) {
	var ye *YTError
	if stderrors.As(err, &ye) {
		return ye, true
	}
	return nil, false
}

// IsRetryable checks if any YTError in the chain is retryable.
func IsRetryable(err error) bool {
	for ; err != nil; err = stderrors.Unwrap(err) {
		if ye, ok := err.(*YTError); ok && ye.Retryable {
			return true
		}
	}
	return false
}

// GetCode extracts the error code from the first YTError in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	if ye, ok := As(err); ok {
		return ye.Code
	}
	return ""
}

// GetCategory extracts the category from the first YTError in the chain.
func GetCategory(err error) Category {
	if ye, ok := As(err); ok {
		return ye.Category
	}
	return ""
}
