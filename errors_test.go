package lessonflow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrEmptyPrompt(t *testing.T) {
	assert.Equal(t, "empty prompt", ErrEmptyPrompt.Error())
	assert.True(t, errors.Is(fmt.Errorf("generate: %w", ErrEmptyPrompt), ErrEmptyPrompt))
}

func TestError(t *testing.T) {
	t.Run("Error includes cause", func(t *testing.T) {
		err := NewTransientError("rate limited", 429, errors.New("slow down"))
		assert.Equal(t, "rate limited: slow down", err.Error())
	})

	t.Run("Error without cause", func(t *testing.T) {
		err := NewPermanentError("unauthorized", 401, nil)
		assert.Equal(t, "unauthorized", err.Error())
	})

	t.Run("Unwrap exposes cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewUserInputError("bad request", 400, cause)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("accessors", func(t *testing.T) {
		err := NewTransientErrorWithRetry("rate limited", 429, 3*time.Second, nil)
		assert.Equal(t, ErrorTransient, err.Category())
		assert.True(t, err.Retryable())
		assert.Equal(t, 429, err.StatusCode())
		assert.Equal(t, 3*time.Second, err.RetryAfter())
	})
}

func TestCategorizeStatusCode(t *testing.T) {
	tests := []struct {
		code     int
		expected ErrorCategory
	}{
		{429, ErrorTransient},
		{500, ErrorTransient},
		{503, ErrorTransient},
		{401, ErrorPermanent},
		{403, ErrorPermanent},
		{400, ErrorUserInput},
		{404, ErrorUserInput},
		{422, ErrorUserInput},
		{418, ErrorPermanent},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeStatusCode(tt.code))
		})
	}
}

func TestNewStatusError(t *testing.T) {
	t.Run("retry-after forces transient", func(t *testing.T) {
		err := NewStatusError("busy", 503, time.Second, nil)
		assert.True(t, IsTransient(err))
		assert.Equal(t, time.Second, RetryAfterOf(err))
	})

	t.Run("status code decides category", func(t *testing.T) {
		assert.True(t, IsPermanent(NewStatusError("denied", 403, 0, nil)))
		assert.True(t, IsUserInput(NewStatusError("bad", 400, 0, nil)))
	})
}

func TestCategoryHelpersWithWrappedErrors(t *testing.T) {
	inner := NewTransientError("rate limited", 429, nil)
	wrapped := fmt.Errorf("call failed: %w", inner)

	assert.True(t, IsTransient(wrapped))
	assert.False(t, IsPermanent(wrapped))
	assert.False(t, IsUserInput(wrapped))
	assert.Equal(t, 429, StatusCodeOf(wrapped))

	plain := errors.New("plain")
	assert.False(t, IsTransient(plain))
	assert.Equal(t, 0, StatusCodeOf(plain))
	assert.Equal(t, time.Duration(0), RetryAfterOf(plain))
}
