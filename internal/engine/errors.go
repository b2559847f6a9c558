// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeInvalidURL      ErrorCode = "INVALID_URL"
	ErrCodeNetworkError    ErrorCode = "NETWORK_ERROR"
	ErrCodeHTTPError       ErrorCode = "HTTP_ERROR"
	ErrCodeRenderError     ErrorCode = "RENDER_ERROR"
	ErrCodeInvalidSelector ErrorCode = "INVALID_SELECTOR"
	ErrCodeNoMatch         ErrorCode = "NO_MATCH"
	ErrCodeInvalidMode     ErrorCode = "INVALID_MODE"
	ErrCodeNoRegexMatch    ErrorCode = "NO_REGEX_MATCH"
	ErrCodeEmptyContent    ErrorCode = "EMPTY_CONTENT"
	ErrCodeEmptySeedList   ErrorCode = "EMPTY_SEED_LIST"
	ErrCodeParseError      ErrorCode = "PARSE_ERROR"
	ErrCodeInvalidConfig   ErrorCode = "INVALID_CONFIG"
)

// Sentinels for errors.Is; matching is by code only.
var (
	ErrInvalidURL      = NewEngineError(ErrCodeInvalidURL, "invalid URL", nil)
	ErrNetwork         = NewEngineError(ErrCodeNetworkError, "network error", nil)
	ErrHTTP            = NewEngineError(ErrCodeHTTPError, "http error", nil)
	ErrRender          = NewEngineError(ErrCodeRenderError, "render error", nil)
	ErrInvalidSelector = NewEngineError(ErrCodeInvalidSelector, "invalid selector", nil)
	ErrNoMatch         = NewEngineError(ErrCodeNoMatch, "no elements matched", nil)
	ErrInvalidMode     = NewEngineError(ErrCodeInvalidMode, "invalid content type", nil)
	ErrNoRegexMatch    = NewEngineError(ErrCodeNoRegexMatch, "no regex matches", nil)
	ErrEmptyContent    = NewEngineError(ErrCodeEmptyContent, "no content extracted", nil)
	ErrEmptySeedList   = NewEngineError(ErrCodeEmptySeedList, "no seed URLs", nil)
	ErrParse           = NewEngineError(ErrCodeParseError, "failed to parse markup", nil)
	ErrInvalidConfig   = NewEngineError(ErrCodeInvalidConfig, "invalid configuration", nil)
)

// EngineError wraps errors with additional context
type EngineError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Retry      bool
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is checks if the error matches the target
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Underlying, target)
}

// Retryable reports whether a retry policy may attempt the operation again
func (e *EngineError) Retryable() bool {
	return e.Retry
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
		Retry:      false,
		Details:    make(map[string]interface{}),
	}
}

// WithRetry marks the error as retryable
func (e *EngineError) WithRetry() *EngineError {
	e.Retry = true
	return e
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	e.Details[key] = value
	return e
}

// CodeOf returns the code of the first EngineError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}
