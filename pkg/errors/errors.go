package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryClassify      ErrorCategory = "classify"
	CategoryExtract       ErrorCategory = "extract"
	CategoryStore         ErrorCategory = "store"
	CategoryFeed          ErrorCategory = "feed"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// Classification errors
	CodeUnrecognizedSender ErrorCode = "unrecognized_sender"

	// Extraction errors
	CodeNoPatternMatch     ErrorCode = "no_pattern_match"
	CodeInvalidAmount      ErrorCode = "invalid_amount"
	CodeAmbiguousDirection ErrorCode = "ambiguous_direction"
	CodeInvalidCandidate   ErrorCode = "invalid_candidate"

	// Store errors
	CodeQueryFailed  ErrorCode = "query_failed"
	CodeInsertFailed ErrorCode = "insert_failed"
	CodeUpdateFailed ErrorCode = "update_failed"

	// Feed errors
	CodeFeedNotFound  ErrorCode = "feed_not_found"
	CodeFeedCorrupted ErrorCode = "feed_corrupted"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// EngineError is the base error type for all application errors
type EngineError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// IsDiscard reports whether the error represents a normal event discard
// (unrecognized sender, unparseable text, ambiguous direction). Discards are
// local and non-propagating: the pipeline records them as outcomes and never
// raises them to its caller.
func (e *EngineError) IsDiscard() bool {
	return e.Category == CategoryClassify || e.Category == CategoryExtract
}

// GetExitCode returns an appropriate exit code for the error
func (e *EngineError) GetExitCode() int {
	switch e.Category {
	case CategoryFeed:
		return 2
	case CategoryClassify, CategoryExtract:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryStore, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *EngineError) WithContext(key string, value interface{}) *EngineError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *EngineError) WithSuggestion(suggestion string) *EngineError {
	e.Suggestion = suggestion
	return e
}

// New creates a new EngineError
func New(category ErrorCategory, code ErrorCode, message string) *EngineError {
	return &EngineError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with EngineError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *EngineError {
	if err == nil {
		return nil
	}

	return &EngineError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// UnrecognizedSender creates the error for an event whose origin id does not
// belong to any known bank or payment-service namespace.
func UnrecognizedSender(originID string) *EngineError {
	return New(CategoryClassify, CodeUnrecognizedSender,
		fmt.Sprintf("sender %q is not a known bank or payment service", originID)).
		WithContext("origin_id", originID)
}

// ExtractError creates an extraction-related error
func ExtractError(code ErrorCode, source string, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeNoPatternMatch:
		message = fmt.Sprintf("no %s pattern matched the event text", source)
		suggestion = "if this is a real transaction message, a new pattern is needed"
	case CodeInvalidAmount:
		message = fmt.Sprintf("extracted %s amount is missing or malformed", source)
	case CodeAmbiguousDirection:
		message = fmt.Sprintf("%s text matched both or neither direction keyword set", source)
	case CodeInvalidCandidate:
		message = fmt.Sprintf("extracted %s candidate failed validation", source)
	default:
		message = fmt.Sprintf("%s extraction failed", source)
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryExtract, code, message)
	} else {
		result = New(CategoryExtract, code, message)
	}

	if suggestion != "" {
		result = result.WithSuggestion(suggestion)
	}
	return result.WithContext("source", source)
}

// StoreError creates a transaction-store-related error
func StoreError(code ErrorCode, operation string, err error) *EngineError {
	var message string

	switch code {
	case CodeQueryFailed:
		message = fmt.Sprintf("store query failed during %s", operation)
	case CodeInsertFailed:
		message = fmt.Sprintf("store insert failed during %s", operation)
	case CodeUpdateFailed:
		message = fmt.Sprintf("store update failed during %s", operation)
	default:
		message = fmt.Sprintf("store error during %s", operation)
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryStore, code, message)
	} else {
		result = New(CategoryStore, code, message)
	}

	return result.
		WithSuggestion("check the store backend and its schema").
		WithContext("operation", operation)
}

// FeedError creates an event-feed-related error
func FeedError(code ErrorCode, path string, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeFeedNotFound:
		message = fmt.Sprintf("event feed not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFeedCorrupted:
		message = fmt.Sprintf("event feed contains malformed lines: %s", path)
		suggestion = "each line must be a single JSON raw event"
	default:
		message = fmt.Sprintf("event feed error: %s", path)
		suggestion = "check the feed file and try again"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryFeed, code, message)
	} else {
		result = New(CategoryFeed, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("path", path)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for %q: %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this setting via flag, env or config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// InternalError creates an internal error
func InternalError(operation string, err error) *EngineError {
	message := fmt.Sprintf("unexpected error during %s", operation)

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryInternal, CodeUnexpectedError, message)
	} else {
		result = New(CategoryInternal, CodeUnexpectedError, message)
	}

	return result.
		WithSuggestion("this is likely a bug - please report it with the error details").
		WithContext("operation", operation)
}

// Utility functions

// IsEngineError checks if an error is an EngineError
func IsEngineError(err error) bool {
	_, ok := err.(*EngineError)
	return ok
}

// AsEngineError extracts an EngineError from an error chain
func AsEngineError(err error) (*EngineError, bool) {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr, true
	}
	return nil, false
}

// IsDiscard reports whether err (or anything it wraps) is a discard-class
// EngineError.
func IsDiscard(err error) bool {
	if engineErr, ok := AsEngineError(err); ok {
		return engineErr.IsDiscard()
	}
	return false
}

// WrapIfNeeded wraps an error if it's not already an EngineError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *EngineError {
	if err == nil {
		return nil
	}

	if engineErr, ok := AsEngineError(err); ok {
		return engineErr
	}

	return Wrap(err, category, code, message)
}
