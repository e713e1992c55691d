package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	var body struct {
		Model       string           `json:"model"`
		Messages    []map[string]any `json:"messages"`
		Temperature float64          `json:"temperature"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-5-mini",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "Four weeks."}}],
			"usage": {"prompt_tokens": 9, "completion_tokens": 3, "total_tokens": 12}
		}`))
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL+"/"))
	temp := 0.2
	resp, err := c.Generate(context.Background(), ai.GenerateRequest{
		Prompt:      "How long is the course?",
		System:      "Answer tersely.",
		Model:       "gpt-5-mini",
		Temperature: &temp,
	})
	require.NoError(t, err)

	assert.Equal(t, "Four weeks.", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	require.True(t, resp.Usage.Known())
	assert.Equal(t, 9, *resp.Usage.InputTokens)
	assert.Equal(t, 3, *resp.Usage.OutputTokens)

	assert.Equal(t, "gpt-5-mini", body.Model)
	assert.Equal(t, 0.2, body.Temperature)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0]["role"])
	assert.Equal(t, "user", body.Messages[1]["role"])
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		retryAfter string
		transient  bool
		category   ai.ErrorCategory
	}{
		{name: "rate limit", status: 429, retryAfter: "2", transient: true, category: ai.ErrorTransient},
		{name: "unavailable", status: 503, transient: true, category: ai.ErrorTransient},
		{name: "forbidden", status: 403, category: ai.ErrorPermanent},
		{name: "unprocessable", status: 422, category: ai.ErrorUserInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"invalid_request_error"}}`))
			}))
			defer srv.Close()

			c := New("test-key", WithBaseURL(srv.URL+"/"))
			_, err := c.Generate(context.Background(), ai.GenerateRequest{Prompt: "hi"})
			require.Error(t, err)

			var ce ai.CategorizedError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.category, ce.Category())
			assert.Equal(t, tt.transient, ce.Retryable())
			assert.Equal(t, tt.status, ce.StatusCode())
			if tt.retryAfter != "" {
				assert.Equal(t, 2*time.Second, ce.RetryAfter())
			}
		})
	}
}
