// Package openai adapts the OpenAI Chat Completions API to [lessonflow.Generator].
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/internal/provider"
	"github.com/spetersoncode/lessonflow/model"
)

// Client wraps the OpenAI SDK to implement ai.Generator.
type Client struct {
	client *openai.Client
	model  string
	opts   []option.RequestOption
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		model: model.DefaultGPTModel.String(),
		opts:  []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)},
	}
	for _, opt := range opts {
		opt(c)
	}
	client := openai.NewClient(c.opts...)
	c.client = &client
	return c
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client)

// WithModel sets the model used when a request names none.
func WithModel(id string) ClientOption {
	return func(c *Client) {
		c.model = id
	}
}

// WithBaseURL points the client at a different API endpoint, such as an
// OpenAI-compatible local server.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.opts = append(c.opts, option.WithBaseURL(url))
	}
}

// Generate sends a single-turn request and returns the text response.
func (c *Client) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.Response, error) {
	modelID := c.model
	if req.Model != "" {
		modelID = req.Model
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    modelID,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ai.NewTransientError("openai: response has no choices", 0, nil)
	}

	return &ai.Response{
		Content:      resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage:        ai.NewUsage(int(resp.Usage.PromptTokens), int(resp.Usage.CompletionTokens)),
	}, nil
}

// wrapError categorizes an OpenAI SDK error by status code and Retry-After
// header. Non-API errors are returned unchanged.
func wrapError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewStatusError("openai request failed", apiErr.StatusCode, provider.ParseRetryAfter(apiErr.Response), err)
}

var _ ai.Generator = (*Client)(nil)
