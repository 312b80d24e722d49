package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/retry"
)

func TestError_ErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "minimal",
			err:  &Error{Type: ErrorTypeUnknown, Message: "llm error"},
			want: "unknown llm error",
		},
		{
			name: "full context",
			err: &Error{
				Type:       ErrorTypeEndpoint,
				Message:    "server error",
				StatusCode: 503,
				Model:      "gpt-4o-mini",
				Endpoint:   "https://api.openai.com/v1",
				Cause:      errors.New("boom"),
			},
			want: "endpoint HTTP 503 model=gpt-4o-mini endpoint=api.openai.com server error: boom",
		},
		{
			name: "endpoint without host is redacted",
			err:  &Error{Type: ErrorTypeEndpoint, Message: "connection failed", Endpoint: "not a url with secret-key"},
			want: "endpoint endpoint=[redacted] connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_UnwrapAndRetryable(t *testing.T) {
	cause := errors.New("socket closed")
	err := NewErrorWithContext(ErrorTypeEndpoint, "connection failed", true, cause, "claude-sonnet", "https://api.anthropic.com/v1", 0)

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.IsRetryable())
	assert.True(t, retry.IsRetryable(err))
	assert.False(t, retry.IsRetryable(cause))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantType   ErrorType
		retryable  bool
		wantStatus int
	}{
		{"context canceled", context.Canceled, ErrorTypeEndpoint, false, 0},
		{"deadline exceeded", context.DeadlineExceeded, ErrorTypeEndpoint, true, 0},
		{"invalid key", errors.New("status code: 401, invalid x-api-key"), ErrorTypeAuth, false, 401},
		{"unknown model", errors.New("The model `gpt-9` does not exist"), ErrorTypeModel, false, 0},
		{"missing route", errors.New("HTTP 404 page not found"), ErrorTypeEndpoint, false, 404},
		{"rate limited", errors.New("status 429 too many requests"), ErrorTypeRateLimited, true, 429},
		{"connection refused ignores port", errors.New("dial tcp 10.0.0.1:5432: connection refused"), ErrorTypeEndpoint, true, 0},
		{"overloaded", errors.New("error, status code: 529, message: overloaded"), ErrorTypeEndpoint, true, 529},
		{"bad request", errors.New("HTTP 400 invalid temperature"), ErrorTypeRequest, false, 400},
		{"unrecognised", errors.New("something odd happened"), ErrorTypeUnknown, false, 0},
		{"openai api error", fmt.Errorf("create completion: %w", &openai.APIError{HTTPStatusCode: 429}), ErrorTypeRateLimited, true, 429},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.retryable, got.Retryable)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyError_KeepsClassifiedError(t *testing.T) {
	original := NewError(ErrorTypeResponse, "empty response content", false, nil)

	assert.Same(t, original, ClassifyError(fmt.Errorf("chat: %w", original)))
	assert.Nil(t, ClassifyError(nil))
}

func TestGetErrorType(t *testing.T) {
	wrapped := fmt.Errorf("chat: %w", NewError(ErrorTypeResponse, "empty response content", false, nil))

	assert.Equal(t, ErrorTypeResponse, GetErrorType(wrapped))
	assert.Equal(t, ErrorTypeUnknown, GetErrorType(errors.New("plain")))
}
