package llm

import (
	"testing"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/internal/logger"
	"github.com/spetersoncode/lessonflow/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModelAlias(t *testing.T) {
	m, err := NewManager(Config{
		DefaultProvider: ai.ProviderOpenAI,
		DefaultModel:    "gpt-5-mini",
		Aliases: map[string]string{
			"fast":  "google/gemini-2.5-flash-lite",
			"draft": "claude-haiku-4-5",
		},
	}, WithLogger(logger.NewLogger(logger.TestConfig())))
	require.NoError(t, err)

	tests := []struct {
		alias    string
		provider ai.Provider
		model    string
	}{
		{"", ai.ProviderOpenAI, "gpt-5-mini"},
		{"fast", ai.ProviderGoogle, "gemini-2.5-flash-lite"},
		{"draft", ai.ProviderAnthropic, "claude-haiku-4-5"},
		{"balanced", ai.ProviderAnthropic, model.ClaudeSonnet45.String()},
		{"openai/gpt-4o", ai.ProviderOpenAI, "gpt-4o"},
		{"local/anything", ai.ProviderLocal, "anything"},
		{"gemini-2.5-pro", ai.ProviderGoogle, "gemini-2.5-pro"},
		{"no-such-alias", ai.ProviderOpenAI, "gpt-5-mini"},
		{"acme/model", ai.Provider("acme"), "model"},
		{"/model", ai.ProviderOpenAI, "gpt-5-mini"},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			p, id, err := m.ResolveModelAlias(tt.alias)
			require.NoError(t, err)
			assert.Equal(t, tt.provider, p)
			assert.Equal(t, tt.model, id)
		})
	}
}

func TestResolveModelAliasStrict(t *testing.T) {
	m, err := NewManager(Config{AliasMode: AliasStrict}, WithLogger(logger.NewLogger(logger.TestConfig())))
	require.NoError(t, err)

	_, _, err = m.ResolveModelAlias("mystery")
	var aliasErr *UnknownAliasError
	require.ErrorAs(t, err, &aliasErr)
	assert.Equal(t, "mystery", aliasErr.Alias)
	assert.Contains(t, aliasErr.Known, "fast")
	assert.IsIncreasing(t, aliasErr.Known)
}

func TestResolveModelAliasDefaults(t *testing.T) {
	m, err := NewManager(Config{}, WithLogger(logger.NewLogger(logger.TestConfig())))
	require.NoError(t, err)

	p, id, err := m.ResolveModelAlias("")
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderAnthropic, p)
	assert.Equal(t, model.DefaultClaudeModel.String(), id)
}
