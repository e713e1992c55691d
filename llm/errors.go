package llm

import (
	"fmt"
	"strings"

	ai "github.com/spetersoncode/lessonflow"
)

// RequestError is returned when a model call fails after retries.
// It wraps the last provider error, so errors.Is and errors.As see through it.
type RequestError struct {
	Provider ai.Provider
	Model    string
	Attempts int
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("llm request to %s/%s failed after %d attempt(s): %v", e.Provider, e.Model, e.Attempts, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// UnknownAliasError is returned in strict alias mode for an alias that is
// neither configured, a "provider/model" pair, nor a known model id.
type UnknownAliasError struct {
	Alias string
	Known []string
}

func (e *UnknownAliasError) Error() string {
	return fmt.Sprintf("unknown model alias %q (known: %s)", e.Alias, strings.Join(e.Known, ", "))
}

// ErrMissingAPIKey is returned when a model is used but no API key
// is configured for that model's provider.
type ErrMissingAPIKey struct {
	Provider string
	Model    string
}

func (e *ErrMissingAPIKey) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no API key configured for %s (required by model %q)", e.Provider, e.Model)
	}
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ErrUnsupportedProvider is returned for a provider name with no adapter.
type ErrUnsupportedProvider struct {
	Provider string
}

func (e *ErrUnsupportedProvider) Error() string {
	return fmt.Sprintf("unsupported provider: %s", e.Provider)
}
