// Package local provides an offline [lessonflow.Generator] for dry runs and
// tests. It never calls out; token counts are estimated locally.
package local

import (
	"context"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/internal/logger"
)

const encoding = "cl100k_base"

var (
	tkm     *tiktoken.Tiktoken
	tkmOnce sync.Once
)

func tokenizer(ctx context.Context) *tiktoken.Tiktoken {
	tkmOnce.Do(func() {
		var err error
		tkm, err = tiktoken.GetEncoding(encoding)
		if err != nil {
			logger.FromContext(ctx).Warn("tiktoken encoding unavailable, estimating tokens by length", "error", err)
			tkm = nil
		}
	})
	return tkm
}

// EstimateTokens counts tokens with cl100k_base, falling back to one token
// per four characters when the encoding cannot be loaded.
func EstimateTokens(ctx context.Context, text string) int {
	if text == "" {
		return 0
	}
	if t := tokenizer(ctx); t != nil {
		return len(t.Encode(text, nil, nil))
	}
	return max(1, len(text)/4)
}

// Responder builds the completion for a request.
type Responder func(req ai.GenerateRequest) string

// Client is the local generator.
type Client struct {
	respond Responder
}

// ClientOption configures the local client.
type ClientOption func(*Client)

// WithResponder replaces the default echo behavior.
func WithResponder(r Responder) ClientOption {
	return func(c *Client) {
		c.respond = r
	}
}

// New returns a local generator that echoes the prompt back.
func New(opts ...ClientOption) *Client {
	c := &Client{respond: func(req ai.GenerateRequest) string { return req.Prompt }}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate returns the responder's output with estimated usage.
func (c *Client) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Prompt == "" {
		return nil, ai.NewUserInputError("local generate", 0, ai.ErrEmptyPrompt)
	}

	content := c.respond(req)
	input := EstimateTokens(ctx, req.System) + EstimateTokens(ctx, req.Prompt)
	output := EstimateTokens(ctx, content)
	if req.MaxTokens > 0 && output > req.MaxTokens {
		output = req.MaxTokens
	}

	return &ai.Response{
		Content:      content,
		FinishReason: "stop",
		Usage:        ai.NewUsage(input, output),
	}, nil
}

var _ ai.Generator = (*Client)(nil)
