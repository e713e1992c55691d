package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/internal/provider"
	"github.com/spetersoncode/lessonflow/model"
)

// DefaultMaxTokens is used when a request does not set MaxTokens.
// The Messages API requires a value.
const DefaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement ai.Generator.
type Client struct {
	client *anthropic.Client
	model  string
	opts   []option.RequestOption
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		model: model.DefaultClaudeModel.String(),
		opts:  []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)},
	}
	for _, opt := range opts {
		opt(c)
	}
	client := anthropic.NewClient(c.opts...)
	c.client = &client
	return c
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithModel sets the model used when a request names none.
func WithModel(id string) ClientOption {
	return func(c *Client) {
		c.model = id
	}
}

// WithBaseURL points the client at a different API endpoint.
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

	maxTokens := int64(DefaultMaxTokens)
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
	}
	// Empty text blocks are rejected by the API.
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	return &ai.Response{
		Content:      content.String(),
		FinishReason: string(resp.StopReason),
		Usage:        ai.NewUsage(int(resp.Usage.InputTokens), int(resp.Usage.OutputTokens)),
	}, nil
}

// wrapError categorizes an Anthropic SDK error by status code and
// Retry-After header. Non-API errors are returned unchanged.
func wrapError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewStatusError("anthropic request failed", apiErr.StatusCode, provider.ParseRetryAfter(apiErr.Response), err)
}

var _ ai.Generator = (*Client)(nil)
