package errors

import (
	"errors"
	"fmt"
)

// Error carries everything EixoAi needs to classify and present a failure:
// a stable code, where it sits in the taxonomy, and what to tell the user.
type Error struct {
	// Code identifies the failure, e.g. "ERR_201_FILE_NOT_FOUND".
	Code string

	// Message describes what went wrong, in terms a user can act on.
	Message string

	// Category groups the code (Config, Extraction, Network, ...).
	Category Category

	// Severity drives how callers log and surface the error.
	Severity Severity

	// Details holds extra context such as the offending source path.
	Details map[string]string

	// Cause is the wrapped lower-level error, if any.
	Cause error

	// Retryable marks transient failures worth another attempt.
	Retryable bool

	// Suggestion tells the user what to try next.
	Suggestion string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two Errors by code, so errors.Is works across wrap layers.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail attaches a key-value detail and returns the error for chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion sets the user-facing hint and returns the error for chaining.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// New builds an Error for the code, deriving category, severity, and the
// retryable flag from the code itself.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap classifies an existing error under code, reusing its message.
// Returns nil when err is nil.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ExtractionError creates a source file extraction error.
// Fatal to the upload that raised it; surfaced to the user.
func ExtractionError(message string, cause error) *Error {
	return New(ErrCodeInvalidFormat, message, cause)
}

// IndexingError creates a write-path error. Surfaced loudly: silent partial
// indexing corrupts future search quality. Caller may delete the document
// and retry.
func IndexingError(message string, cause error) *Error {
	return New(ErrCodeIndexingFailed, message, cause).
		WithSuggestion("delete the document and retry indexing")
}

// EmbeddingError creates an embedding collaborator error.
func EmbeddingError(message string, cause error) *Error {
	return New(ErrCodeEmbeddingFailed, message, cause)
}

// SearchError creates a read-path error. Recovered internally to an empty
// result set by the search engine, never fatal to a conversation.
func SearchError(message string, cause error) *Error {
	return New(ErrCodeSearchFailed, message, cause)
}

// StoreError creates a vector store error.
func StoreError(message string, cause error) *Error {
	return New(ErrCodeStoreFailed, message, cause)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *Error {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *Error {
	return New(ErrCodeInvalidInput, message, cause)
}

// IsRetryable checks if an error is retryable.
// Returns true if the error is an Error with the Retryable flag set.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// CodeOf returns the error code of err, or empty string if err is not an Error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
