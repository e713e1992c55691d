package model

import (
	"fmt"
	"maps"

	"dario.cat/mergo"
	ai "github.com/spetersoncode/lessonflow"
)

// Rate is a USD price per 1,000 tokens.
type Rate struct {
	InputPer1K  float64 `mapstructure:"input" json:"input" yaml:"input" validate:"gte=0"`
	OutputPer1K float64 `mapstructure:"output" json:"output" yaml:"output" validate:"gte=0"`
}

// Cost computes (in/1000)*input + (out/1000)*output.
func (r Rate) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1000*r.InputPer1K + float64(outputTokens)/1000*r.OutputPer1K
}

// IsZero reports whether the rate carries no prices.
func (r Rate) IsZero() bool {
	return r.InputPer1K == 0 && r.OutputPer1K == 0
}

// BuiltinRates returns the per-model rates of the built-in catalog keyed by model id.
func BuiltinRates() map[string]Rate {
	rates := make(map[string]Rate, len(ChatModels))
	for _, m := range ChatModels {
		if !m.rate.IsZero() {
			rates[m.id] = m.rate
		}
	}
	return rates
}

// BuiltinProviderRates returns each provider's fallback rate, taken from its default model.
func BuiltinProviderRates() map[string]Rate {
	rates := make(map[string]Rate)
	for _, p := range []ai.Provider{ai.ProviderAnthropic, ai.ProviderOpenAI, ai.ProviderGoogle} {
		if m, ok := DefaultFor(p); ok {
			rates[string(p)] = m.rate
		}
	}
	return rates
}

// MergeRates layers configured rates over the built-in ones. Configured
// entries win; a configured zero rate falls back to the built-in value.
func MergeRates(builtin, configured map[string]Rate) (map[string]Rate, error) {
	merged := maps.Clone(configured)
	if merged == nil {
		merged = make(map[string]Rate, len(builtin))
	}
	if err := mergo.Merge(&merged, builtin); err != nil {
		return nil, fmt.Errorf("merge rates: %w", err)
	}
	return merged, nil
}

// RateTable resolves rates model first, then provider, then zero.
type RateTable struct {
	Models    map[string]Rate
	Providers map[string]Rate
}

// NewRateTable builds a table from the built-in catalog plus configured overrides.
func NewRateTable(models, providers map[string]Rate) (*RateTable, error) {
	m, err := MergeRates(BuiltinRates(), models)
	if err != nil {
		return nil, err
	}
	p, err := MergeRates(BuiltinProviderRates(), providers)
	if err != nil {
		return nil, err
	}
	return &RateTable{Models: m, Providers: p}, nil
}

// Resolve returns the rate for a provider/model pair. Unknown pairs cost nothing.
func (t *RateTable) Resolve(provider, modelID string) Rate {
	if t == nil {
		return Rate{}
	}
	if r, ok := t.Models[modelID]; ok {
		return r
	}
	if r, ok := t.Providers[provider]; ok {
		return r
	}
	return Rate{}
}

// Cost computes the cost of a call, resolving the rate first.
func (t *RateTable) Cost(provider, modelID string, inputTokens, outputTokens int) float64 {
	return t.Resolve(provider, modelID).Cost(inputTokens, outputTokens)
}
