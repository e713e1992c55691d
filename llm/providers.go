package llm

import (
	"context"
	"fmt"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/internal/provider/anthropic"
	"github.com/spetersoncode/lessonflow/internal/provider/google"
	"github.com/spetersoncode/lessonflow/internal/provider/local"
	"github.com/spetersoncode/lessonflow/internal/provider/openai"
)

// generator returns the Generator for a provider. Generators registered with
// WithProvider win; otherwise adapters are built lazily from the API keys.
func (m *Manager) generator(ctx context.Context, p ai.Provider, modelID string) (ai.Generator, error) {
	m.genMu.RLock()
	if g, ok := m.generators[p]; ok {
		defer m.genMu.RUnlock()
		return g, nil
	}
	m.genMu.RUnlock()

	m.genMu.Lock()
	defer m.genMu.Unlock()

	// Double-check after acquiring write lock
	if g, ok := m.generators[p]; ok {
		return g, nil
	}

	var g ai.Generator
	switch p {
	case ai.ProviderAnthropic:
		if m.apiKeys.Anthropic == "" {
			return nil, &ErrMissingAPIKey{Provider: string(p), Model: modelID}
		}
		g = anthropic.New(m.apiKeys.Anthropic)
	case ai.ProviderOpenAI:
		if m.apiKeys.OpenAI == "" {
			return nil, &ErrMissingAPIKey{Provider: string(p), Model: modelID}
		}
		g = openai.New(m.apiKeys.OpenAI)
	case ai.ProviderGoogle:
		if m.apiKeys.Google == "" {
			return nil, &ErrMissingAPIKey{Provider: string(p), Model: modelID}
		}
		client, err := google.New(ctx, m.apiKeys.Google)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google client: %w", err)
		}
		g = client
	case ai.ProviderLocal:
		g = local.New()
	default:
		return nil, &ErrUnsupportedProvider{Provider: string(p)}
	}

	m.generators[p] = g
	return g, nil
}
