package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "configuration error",
			err:      &ConfigurationError{Reason: "GEMINI_API_KEY not set"},
			expected: "configuration error: GEMINI_API_KEY not set",
		},
		{
			name:     "malformed response error",
			err:      &MalformedResponseError{Reason: "missing slide_timings key"},
			expected: "malformed reasoning response: missing slide_timings key",
		},
		{
			name:     "validation error",
			err:      &ValidationError{Reason: "slide index 5 out of range"},
			expected: "validation error: slide index 5 out of range",
		},
		{
			name:     "resource exhaustion error",
			err:      &ResourceExhaustionError{AllocMB: 2048, LimitMB: 1024},
			expected: "memory limit exceeded: 2048 MB allocated, limit 1024 MB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestItemProcessingError_Unwrap(t *testing.T) {
	cause := errors.New("pdftotext exited 1")
	err := &ItemProcessingError{Unit: "page 3", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "page 3")
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"malformed response is fatal", &MalformedResponseError{Reason: "x"}, true},
		{"resource exhaustion is fatal", &ResourceExhaustionError{AllocMB: 1, LimitMB: 1}, true},
		{"wrapped fatal stays fatal", fmt.Errorf("align: %w", &MalformedResponseError{Reason: "x"}), true},
		{"configuration error is recoverable", &ConfigurationError{Reason: "x"}, false},
		{"validation error is recoverable", &ValidationError{Reason: "x"}, false},
		{"item error is recoverable", &ItemProcessingError{Unit: "u", Err: errors.New("y")}, false},
		{"plain error is recoverable", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
		})
	}
}
