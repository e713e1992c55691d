package llm

import (
	"time"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/internal/retry"
	"github.com/spetersoncode/lessonflow/model"
)

// AliasMode controls what happens to an alias nobody configured.
type AliasMode string

const (
	// AliasLenient falls back to the default provider and model.
	AliasLenient AliasMode = "lenient"
	// AliasStrict rejects the alias with an [UnknownAliasError].
	AliasStrict AliasMode = "strict"
)

// APIKeys holds API keys for different providers.
// Only configure keys for providers you intend to use.
type APIKeys struct {
	Anthropic string `mapstructure:"anthropic" json:"-"`
	OpenAI    string `mapstructure:"openai" json:"-"`
	Google    string `mapstructure:"google" json:"-"`
}

// Config holds configuration for a Manager.
type Config struct {
	// DefaultProvider serves empty and unknown (lenient) aliases.
	DefaultProvider ai.Provider `mapstructure:"default_provider" json:"defaultProvider" validate:"omitempty,oneof=anthropic openai google local"`

	// DefaultModel is the model used with DefaultProvider. Empty means the
	// provider's recommended model.
	DefaultModel string `mapstructure:"default_model" json:"defaultModel"`

	AliasMode AliasMode `mapstructure:"alias_mode" json:"aliasMode" validate:"omitempty,oneof=strict lenient"`

	// Aliases maps a name to "provider/model" or a bare model id.
	// Entries are layered over BuiltinAliases.
	Aliases map[string]string `mapstructure:"aliases" json:"aliases,omitempty"`

	// Rates and ProviderRates are layered over the built-in pricing catalog.
	Rates         map[string]model.Rate `mapstructure:"rates" json:"rates,omitempty" validate:"dive"`
	ProviderRates map[string]model.Rate `mapstructure:"provider_rates" json:"providerRates,omitempty" validate:"dive"`

	// Retry is the retry policy for every call. Nil uses retry.DefaultConfig.
	Retry *retry.Config `mapstructure:"retry" json:"retry,omitempty"`

	// RetryTransientOnly retries only errors recognized as transient
	// (rate limits, 5xx, network timeouts) instead of everything that is not
	// explicitly permanent.
	RetryTransientOnly bool `mapstructure:"retry_transient_only" json:"retryTransientOnly"`

	// RequestTimeout bounds each provider attempt. Zero means no timeout.
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"requestTimeout"`

	APIKeys APIKeys `mapstructure:"api_keys" json:"-"`
}

// BuiltinAliases returns the aliases available without configuration.
func BuiltinAliases() map[string]string {
	return map[string]string{
		"fast":     "anthropic/" + model.ClaudeHaiku45.String(),
		"balanced": "anthropic/" + model.ClaudeSonnet45.String(),
		"powerful": "anthropic/" + model.ClaudeOpus45.String(),
		"cheap":    "openai/" + model.GPT5Nano.String(),
		"gemini":   "google/" + model.DefaultGeminiModel.String(),
		"local":    "local/" + model.LocalEcho.String(),
	}
}
