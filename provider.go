package lessonflow

import "context"

// Provider identifies an LLM provider.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
	// ProviderLocal is the offline echo provider used for dry runs and tests.
	ProviderLocal Provider = "local"
)

// Generator defines the interface for single-turn text generation.
// Implementations should return categorized errors (see [CategorizedError])
// so callers can decide whether a failure is worth retrying.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Response, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (*Response, error)

// Generate calls f(ctx, req).
func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (*Response, error) {
	return f(ctx, req)
}
