package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesClassification(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category Category
		severity Severity
		retry    bool
	}{
		{"config", ErrCodeConfigInvalid, CategoryConfig, SeverityFatal, false},
		{"extraction", ErrCodeInvalidFormat, CategoryExtraction, SeverityError, false},
		{"empty document", ErrCodeEmptyDocument, CategoryExtraction, SeverityWarning, false},
		{"network timeout", ErrCodeNetworkTimeout, CategoryNetwork, SeverityError, true},
		{"model not found", ErrCodeModelNotFound, CategoryNetwork, SeverityError, false},
		{"validation", ErrCodeInvalidInput, CategoryValidation, SeverityError, false},
		{"embedding", ErrCodeEmbeddingFailed, CategoryInternal, SeverityError, true},
		{"indexing", ErrCodeIndexingFailed, CategoryInternal, SeverityError, true},
		{"search", ErrCodeSearchFailed, CategoryInternal, SeverityWarning, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "message", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
			assert.Equal(t, tt.retry, err.Retryable)
		})
	}
}

func TestError_MessageFormat(t *testing.T) {
	err := New(ErrCodeFileNotFound, "file not found: x.pdf", nil)
	assert.Equal(t, "[ERR_201_FILE_NOT_FOUND] file not found: x.pdf", err.Error())
}

func TestError_UnwrapChain(t *testing.T) {
	cause := errors.New("disk full")
	err := StoreError("write failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestError_IsMatchesByCode(t *testing.T) {
	a := New(ErrCodeSearchFailed, "first", nil)
	b := New(ErrCodeSearchFailed, "second", nil)
	c := New(ErrCodeStoreFailed, "third", nil)

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestError_WithDetailAndSuggestion(t *testing.T) {
	err := IndexingError("embed failed", nil).
		WithDetail("source", "manual.pdf").
		WithDetail("chunks", "12")

	assert.Equal(t, "manual.pdf", err.Details["source"])
	assert.Equal(t, "12", err.Details["chunks"])
	assert.Equal(t, "delete the document and retry indexing", err.Suggestion)
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeNetworkUnavailable, cause)
	require.NotNil(t, err)
	assert.Equal(t, "connection refused", err.Message)
	assert.ErrorIs(t, err, cause)

	assert.Nil(t, Wrap(ErrCodeNetworkUnavailable, nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(EmbeddingError("timeout", nil)))
	assert.False(t, IsRetryable(SearchError("degraded", nil)))
	assert.False(t, IsRetryable(errors.New("plain error")))

	// Retryability survives wrapping in plain errors.
	wrapped := fmt.Errorf("context: %w", EmbeddingError("timeout", nil))
	assert.True(t, IsRetryable(wrapped))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeSearchFailed, CodeOf(SearchError("x", nil)))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}
