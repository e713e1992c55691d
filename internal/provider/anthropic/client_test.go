package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "Plants "}, {"type": "text", "text": "eat light."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 4}
		}`))
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL+"/"), WithModel("claude-haiku-4-5"))
	resp, err := c.Generate(context.Background(), ai.GenerateRequest{
		Prompt: "Summarize photosynthesis.",
		System: "Be brief.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Plants eat light.", resp.Content)
	assert.Equal(t, "end_turn", resp.FinishReason)
	require.True(t, resp.Usage.Known())
	assert.Equal(t, 12, *resp.Usage.InputTokens)
	assert.Equal(t, 4, *resp.Usage.OutputTokens)

	assert.Equal(t, "claude-haiku-4-5", body["model"])
	assert.EqualValues(t, DefaultMaxTokens, body["max_tokens"])
	assert.NotNil(t, body["system"])
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		retryAfter string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "rate limit carries retry after",
			status:     http.StatusTooManyRequests,
			retryAfter: "3",
			check: func(t *testing.T, err error) {
				assert.True(t, ai.IsTransient(err))
				assert.Equal(t, 3*time.Second, ai.RetryAfterOf(err))
			},
		},
		{
			name:   "server error is transient",
			status: http.StatusBadGateway,
			check: func(t *testing.T, err error) {
				assert.True(t, ai.IsTransient(err))
			},
		},
		{
			name:   "auth failure is permanent",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				assert.True(t, ai.IsPermanent(err))
			},
		},
		{
			name:   "bad request is user input",
			status: http.StatusBadRequest,
			check: func(t *testing.T, err error) {
				assert.True(t, ai.IsUserInput(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"nope"}}`))
			}))
			defer srv.Close()

			c := New("test-key", WithBaseURL(srv.URL+"/"))
			_, err := c.Generate(context.Background(), ai.GenerateRequest{Prompt: "hi"})
			require.Error(t, err)
			assert.Equal(t, tt.status, ai.StatusCodeOf(err))
			tt.check(t, err)
		})
	}
}

func TestWrapErrorPassesThroughNonAPIErrors(t *testing.T) {
	err := errors.New("dial tcp: connection refused")
	assert.Same(t, err, wrapError(err))
}
