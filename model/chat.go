package model

import ai "github.com/spetersoncode/lessonflow"

// ChatModel represents a text generation model from any provider.
type ChatModel struct {
	id       string
	provider ai.Provider
	rate     Rate
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ChatModel) Provider() ai.Provider { return m.provider }

// Rate returns the per-1K token rate for this model.
func (m ChatModel) Rate() Rate { return m.rate }

// Cost returns the USD cost of a call with the given token counts.
func (m ChatModel) Cost(inputTokens, outputTokens int) float64 {
	return m.rate.Cost(inputTokens, outputTokens)
}

// Anthropic Claude Models
// Model pricing last verified: December 14, 2025
var (
	ClaudeOpus45   = ChatModel{id: "claude-opus-4-5", provider: ai.ProviderAnthropic, rate: Rate{InputPer1K: 0.005, OutputPer1K: 0.025}}
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: ai.ProviderAnthropic, rate: Rate{InputPer1K: 0.003, OutputPer1K: 0.015}}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: ai.ProviderAnthropic, rate: Rate{InputPer1K: 0.001, OutputPer1K: 0.005}}

	// Pinned versions
	ClaudeOpus45_20251101   = ChatModel{id: "claude-opus-4-5-20251101", provider: ai.ProviderAnthropic, rate: Rate{InputPer1K: 0.005, OutputPer1K: 0.025}}
	ClaudeSonnet45_20250929 = ChatModel{id: "claude-sonnet-4-5-20250929", provider: ai.ProviderAnthropic, rate: Rate{InputPer1K: 0.003, OutputPer1K: 0.015}}
	ClaudeHaiku45_20251001  = ChatModel{id: "claude-haiku-4-5-20251001", provider: ai.ProviderAnthropic, rate: Rate{InputPer1K: 0.001, OutputPer1K: 0.005}}

	// DefaultClaudeModel is the recommended default Anthropic model.
	DefaultClaudeModel = ClaudeSonnet45
)

// OpenAI GPT and O-Series Models
// Model pricing last verified: December 14, 2025
var (
	GPT52    = ChatModel{id: "gpt-5.2", provider: ai.ProviderOpenAI, rate: Rate{InputPer1K: 0.00175, OutputPer1K: 0.014}}
	GPT51    = ChatModel{id: "gpt-5.1", provider: ai.ProviderOpenAI, rate: Rate{InputPer1K: 0.00125, OutputPer1K: 0.010}}
	GPT5     = ChatModel{id: "gpt-5", provider: ai.ProviderOpenAI, rate: Rate{InputPer1K: 0.00125, OutputPer1K: 0.010}}
	GPT5Mini = ChatModel{id: "gpt-5-mini", provider: ai.ProviderOpenAI, rate: Rate{InputPer1K: 0.00025, OutputPer1K: 0.001}}
	GPT5Nano = ChatModel{id: "gpt-5-nano", provider: ai.ProviderOpenAI, rate: Rate{InputPer1K: 0.0001, OutputPer1K: 0.0004}}
	GPT4o    = ChatModel{id: "gpt-4o", provider: ai.ProviderOpenAI, rate: Rate{InputPer1K: 0.0025, OutputPer1K: 0.010}}
	O3       = ChatModel{id: "o3", provider: ai.ProviderOpenAI, rate: Rate{InputPer1K: 0.002, OutputPer1K: 0.008}}
	O4Mini   = ChatModel{id: "o4-mini", provider: ai.ProviderOpenAI, rate: Rate{InputPer1K: 0.0011, OutputPer1K: 0.0044}}

	// DefaultGPTModel is the recommended default OpenAI model.
	DefaultGPTModel = GPT52
)

// Google Gemini Models
// Model pricing last verified: December 14, 2025
var (
	Gemini25Pro       = ChatModel{id: "gemini-2.5-pro", provider: ai.ProviderGoogle, rate: Rate{InputPer1K: 0.00125, OutputPer1K: 0.010}}
	Gemini25Flash     = ChatModel{id: "gemini-2.5-flash", provider: ai.ProviderGoogle, rate: Rate{InputPer1K: 0.00015, OutputPer1K: 0.0006}}
	Gemini25FlashLite = ChatModel{id: "gemini-2.5-flash-lite", provider: ai.ProviderGoogle, rate: Rate{InputPer1K: 0.000075, OutputPer1K: 0.0003}}

	// DefaultGeminiModel is the recommended default Google model.
	DefaultGeminiModel = Gemini25Flash
)

// Local heuristic model. It never calls out and costs nothing.
var (
	LocalEcho = ChatModel{id: "echo", provider: ai.ProviderLocal}
)

// ChatModels lists every model in the built-in catalog.
var ChatModels = []ChatModel{
	ClaudeOpus45, ClaudeSonnet45, ClaudeHaiku45,
	ClaudeOpus45_20251101, ClaudeSonnet45_20250929, ClaudeHaiku45_20251001,
	GPT52, GPT51, GPT5, GPT5Mini, GPT5Nano, GPT4o, O3, O4Mini,
	Gemini25Pro, Gemini25Flash, Gemini25FlashLite,
	LocalEcho,
}

// Lookup finds a built-in model by API identifier.
func Lookup(id string) (ChatModel, bool) {
	for _, m := range ChatModels {
		if m.id == id {
			return m, true
		}
	}
	return ChatModel{}, false
}

// DefaultFor returns the recommended model for a provider.
func DefaultFor(p ai.Provider) (ChatModel, bool) {
	switch p {
	case ai.ProviderAnthropic:
		return DefaultClaudeModel, true
	case ai.ProviderOpenAI:
		return DefaultGPTModel, true
	case ai.ProviderGoogle:
		return DefaultGeminiModel, true
	case ai.ProviderLocal:
		return LocalEcho, true
	}
	return ChatModel{}, false
}
