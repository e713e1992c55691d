package settings

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/internal/logger"
	"github.com/spetersoncode/lessonflow/llm"
)

// clearKeys pins provider key variables so the host environment cannot leak in.
func clearKeys(t *testing.T) {
	t.Helper()
	for _, envs := range apiKeyEnv {
		for _, e := range envs {
			t.Setenv(e, "")
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearKeys(t)
	s, err := Load(Options{Fs: afero.NewMemMapFs()})
	require.NoError(t, err)

	assert.Equal(t, "workflows", s.Paths.Workflows)
	assert.Equal(t, "prompts", s.Paths.Prompts)
	assert.Equal(t, ".lessonflow/sessions", s.Paths.Sessions)
	assert.Equal(t, ai.ProviderAnthropic, s.LLM.DefaultProvider)
	assert.Equal(t, llm.AliasLenient, s.LLM.AliasMode)
	assert.Equal(t, 2*time.Minute, s.LLM.RequestTimeout)
	require.NotNil(t, s.LLM.Retry)
	assert.Equal(t, 3, s.LLM.Retry.MaxAttempts)
	assert.Equal(t, time.Second, s.LLM.Retry.InitialDelay)
	assert.Equal(t, 30*time.Second, s.LLM.Retry.MaxDelay)
	assert.True(t, s.LLM.Retry.FullJitter)
	assert.Equal(t, "info", s.Log.Level)
	assert.Empty(t, s.ConfigFile)
}

func TestLoadConfigFile(t *testing.T) {
	clearKeys(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/lf.yaml", []byte(`
paths:
  workflows: /srv/workflows
llm:
  default_provider: openai
  alias_mode: strict
  aliases:
    writer: anthropic/claude-sonnet-4-5
  rates:
    gpt-4o:
      input: 0.01
      output: 0.02
  retry:
    max_attempts: 5
    initial_delay: 250ms
log:
  level: debug
  json: true
`), 0o644))

	s, err := Load(Options{ConfigFile: "/etc/lf.yaml", Fs: fs})
	require.NoError(t, err)

	assert.Equal(t, "/etc/lf.yaml", s.ConfigFile)
	assert.Equal(t, "/srv/workflows", s.Paths.Workflows)
	assert.Equal(t, "prompts", s.Paths.Prompts)
	assert.Equal(t, ai.ProviderOpenAI, s.LLM.DefaultProvider)
	assert.Equal(t, llm.AliasStrict, s.LLM.AliasMode)
	assert.Equal(t, "anthropic/claude-sonnet-4-5", s.LLM.Aliases["writer"])
	assert.InDelta(t, 0.02, s.LLM.Rates["gpt-4o"].OutputPer1K, 1e-9)
	assert.Equal(t, 5, s.LLM.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, s.LLM.Retry.InitialDelay)
	assert.Equal(t, 30*time.Second, s.LLM.Retry.MaxDelay)

	lc := s.Log.LoggerConfig()
	assert.Equal(t, logger.DebugLevel, lc.Level)
	assert.True(t, lc.JSON)
}

func TestLoadMissingExplicitConfig(t *testing.T) {
	clearKeys(t)
	_, err := Load(Options{ConfigFile: "/nope.yaml", Fs: afero.NewMemMapFs()})
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearKeys(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.yaml", []byte("log:\n  level: loud\n"), 0o644))

	_, err := Load(Options{ConfigFile: "/c.yaml", Fs: fs})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestEnvironmentOverrides(t *testing.T) {
	clearKeys(t)
	t.Setenv("LESSONFLOW_LOG_LEVEL", "warn")
	t.Setenv("LESSONFLOW_LLM_DEFAULT_PROVIDER", "google")
	t.Setenv("ANTHROPIC_API_KEY", "sk-native")
	t.Setenv("LESSONFLOW_API_KEYS_OPENAI", "sk-prefixed")

	s, err := Load(Options{Fs: afero.NewMemMapFs()})
	require.NoError(t, err)

	assert.Equal(t, "warn", s.Log.Level)
	assert.Equal(t, ai.ProviderGoogle, s.LLM.DefaultProvider)
	assert.Equal(t, "sk-native", s.APIKeys.Anthropic)
	assert.Equal(t, "sk-prefixed", s.APIKeys.OpenAI)
}

func TestEnvFile(t *testing.T) {
	clearKeys(t)
	t.Cleanup(func() { _ = os.Unsetenv("LESSONFLOW_PATHS_PROMPTS") })
	t.Setenv("LESSONFLOW_LOG_LEVEL", "error")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/app/.env", []byte(
		"LESSONFLOW_PATHS_PROMPTS=/from/dotenv\nLESSONFLOW_LOG_LEVEL=debug\n",
	), 0o644))

	s, err := Load(Options{EnvFile: "/app/.env", Fs: fs})
	require.NoError(t, err)

	assert.Equal(t, "/from/dotenv", s.Paths.Prompts)
	assert.Equal(t, "error", s.Log.Level, "real environment wins over dotenv")
}

func TestMissingExplicitEnvFile(t *testing.T) {
	clearKeys(t)
	_, err := Load(Options{EnvFile: "/missing.env", Fs: afero.NewMemMapFs()})
	require.Error(t, err)
}

func TestLLMConfigMergesKeys(t *testing.T) {
	s := &Settings{
		LLM:     llm.Config{APIKeys: llm.APIKeys{OpenAI: "llm-level"}},
		APIKeys: llm.APIKeys{Anthropic: "top", OpenAI: "ignored"},
	}

	cfg, err := s.LLMConfig()
	require.NoError(t, err)
	assert.Equal(t, "top", cfg.APIKeys.Anthropic)
	assert.Equal(t, "llm-level", cfg.APIKeys.OpenAI)
	assert.Empty(t, cfg.APIKeys.Google)
}
