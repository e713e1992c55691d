package lessonflow

// GenerateRequest is a single-turn completion request sent to a provider.
type GenerateRequest struct {
	// Prompt is the rendered user prompt.
	Prompt string `json:"prompt"`
	// System is an optional system instruction.
	System string `json:"system,omitempty"`
	// Model is the provider-specific model identifier.
	Model       string   `json:"model"`
	MaxTokens   int      `json:"maxTokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// Response represents a complete response from a provider.
type Response struct {
	Content      string `json:"content,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Usage        Usage  `json:"usage"`
}

// Usage contains token usage information for a request.
// A nil pointer means the provider did not report that side.
type Usage struct {
	InputTokens  *int `json:"inputTokens,omitempty"`
	OutputTokens *int `json:"outputTokens,omitempty"`
}

// NewUsage builds a Usage with both token counts known.
func NewUsage(input, output int) Usage {
	return Usage{InputTokens: &input, OutputTokens: &output}
}

// Known reports whether both token counts were reported.
func (u Usage) Known() bool {
	return u.InputTokens != nil && u.OutputTokens != nil
}
