// Package settings loads lessonflow's application configuration from a config
// file, a dotenv file and the environment.
//
// Precedence, highest first: LESSONFLOW_* environment variables (and the
// provider-native ANTHROPIC_API_KEY, OPENAI_API_KEY, GOOGLE_API_KEY),
// variables from the dotenv file, the config file, built-in defaults.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/spetersoncode/lessonflow/internal/logger"
	"github.com/spetersoncode/lessonflow/llm"
)

const (
	// EnvPrefix prefixes every environment override, e.g. LESSONFLOW_LOG_LEVEL.
	EnvPrefix = "LESSONFLOW"
	// ConfigName is the config file base name searched for when none is given.
	ConfigName = "lessonflow"
	// DefaultEnvFile is loaded when present and no env file is given.
	DefaultEnvFile = ".env"
)

// Paths locates the directories lessonflow reads from and writes to.
type Paths struct {
	Workflows string `mapstructure:"workflows" validate:"required"`
	Prompts   string `mapstructure:"prompts" validate:"required"`
	Sessions  string `mapstructure:"sessions" validate:"required"`
}

// Log configures the process logger.
type Log struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error disabled"`
	JSON  bool   `mapstructure:"json"`
}

// LoggerConfig converts the settings into a logger configuration.
func (l Log) LoggerConfig() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.LogLevel(l.Level)
	cfg.JSON = l.JSON
	return cfg
}

// Settings is the fully resolved application configuration.
type Settings struct {
	Paths   Paths       `mapstructure:"paths"`
	LLM     llm.Config  `mapstructure:"llm"`
	APIKeys llm.APIKeys `mapstructure:"api_keys"`
	Log     Log         `mapstructure:"log"`

	// ConfigFile is the config file that was read, empty when none was found.
	ConfigFile string `mapstructure:"-"`
}

// LLMConfig returns the LLM configuration with the top-level API keys filled
// into any provider key not set under llm.api_keys.
func (s *Settings) LLMConfig() (llm.Config, error) {
	cfg := s.LLM
	if err := mergo.Merge(&cfg.APIKeys, s.APIKeys); err != nil {
		return llm.Config{}, fmt.Errorf("merge api keys: %w", err)
	}
	return cfg, nil
}

// Options controls where Load looks for its inputs.
type Options struct {
	// ConfigFile is an explicit config file. A missing explicit file is an error.
	ConfigFile string
	// EnvFile is an explicit dotenv file. Empty loads DefaultEnvFile if present.
	EnvFile string
	// Fs is the filesystem for config and dotenv files. Nil means the OS.
	Fs afero.Fs
}

// Load resolves settings from defaults, the config file, the dotenv file and
// the environment, then validates the result.
func Load(opts Options) (*Settings, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	if err := loadEnvFile(fs, opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range apiKeyEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.lessonflow")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	s.ConfigFile = v.ConfigFileUsed()

	if err := validator.New().Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

var apiKeyEnv = map[string][]string{
	"api_keys.anthropic": {EnvPrefix + "_API_KEYS_ANTHROPIC", "ANTHROPIC_API_KEY"},
	"api_keys.openai":    {EnvPrefix + "_API_KEYS_OPENAI", "OPENAI_API_KEY"},
	"api_keys.google":    {EnvPrefix + "_API_KEYS_GOOGLE", "GOOGLE_API_KEY", "GEMINI_API_KEY"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.workflows", "workflows")
	v.SetDefault("paths.prompts", "prompts")
	v.SetDefault("paths.sessions", ".lessonflow/sessions")

	v.SetDefault("llm.default_provider", "anthropic")
	v.SetDefault("llm.default_model", "")
	v.SetDefault("llm.alias_mode", string(llm.AliasLenient))
	v.SetDefault("llm.request_timeout", "2m")
	v.SetDefault("llm.retry_transient_only", false)
	v.SetDefault("llm.retry.max_attempts", 3)
	v.SetDefault("llm.retry.initial_delay", "1s")
	v.SetDefault("llm.retry.max_delay", "30s")
	v.SetDefault("llm.retry.multiplier", 2.0)
	v.SetDefault("llm.retry.jitter", 0.0)
	v.SetDefault("llm.retry.full_jitter", true)

	v.SetDefault("log.level", string(logger.InfoLevel))
	v.SetDefault("log.json", false)
}

// loadEnvFile exports variables from a dotenv file without overriding ones
// already present in the environment.
func loadEnvFile(fs afero.Fs, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	vars, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("parse env file %s: %w", path, err)
	}
	for k, val := range vars {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}
