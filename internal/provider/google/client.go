// Package google adapts the Gemini API (google.golang.org/genai) to
// [lessonflow.Generator].
package google

import (
	"context"
	"errors"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/model"
	"google.golang.org/genai"
)

// Client wraps the Google GenAI SDK to implement ai.Generator.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	c := &Client{model: model.DefaultGeminiModel.String()}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(c, cfg)
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.client = client
	return c, nil
}

// ClientOption configures the Google client.
type ClientOption func(*Client, *genai.ClientConfig)

// WithModel sets the model used when a request names none.
func WithModel(id string) ClientOption {
	return func(c *Client, _ *genai.ClientConfig) {
		c.model = id
	}
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(_ *Client, cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = url
	}
}

// Generate sends a single-turn request and returns the text response.
func (c *Client) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.Response, error) {
	modelID := c.model
	if req.Model != "" {
		modelID = req.Model
	}

	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelID, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, wrapError(err)
	}

	finishReason := ""
	if len(resp.Candidates) > 0 {
		finishReason = string(resp.Candidates[0].FinishReason)
	}

	// Gemini may omit usage metadata; unknown counts stay nil.
	usage := ai.Usage{}
	if resp.UsageMetadata != nil {
		usage = ai.NewUsage(int(resp.UsageMetadata.PromptTokenCount), int(resp.UsageMetadata.CandidatesTokenCount))
	}

	return &ai.Response{
		Content:      resp.Text(),
		FinishReason: finishReason,
		Usage:        usage,
	}, nil
}

// wrapError categorizes a GenAI error by status code.
// genai.APIError does not expose headers, so Retry-After is not available.
func wrapError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewStatusError("google request failed", apiErr.Code, 0, err)
}

var _ ai.Generator = (*Client)(nil)
