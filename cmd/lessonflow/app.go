package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/config"
	"github.com/spetersoncode/lessonflow/engine"
	"github.com/spetersoncode/lessonflow/internal/logger"
	"github.com/spetersoncode/lessonflow/internal/provider/local"
	"github.com/spetersoncode/lessonflow/llm"
	"github.com/spetersoncode/lessonflow/persist"
	"github.com/spetersoncode/lessonflow/prompt"
	"github.com/spetersoncode/lessonflow/settings"
	"github.com/spetersoncode/lessonflow/transform"
	"github.com/spetersoncode/lessonflow/validation"
)

// app is the wiring shared by the subcommands.
type app struct {
	settings *settings.Settings
	log      logger.Logger
	prompts  *prompt.Registry
	catalog  *config.Catalog
	sessions *persist.Manager
	llm      *llm.Manager
}

type appOptions struct {
	// dryRun serves every provider with the local echo generator.
	dryRun bool
	stderr io.Writer
}

func newApp(g *globalFlags, opts appOptions) (*app, error) {
	s, err := settings.Load(settings.Options{ConfigFile: g.configFile, EnvFile: g.envFile})
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	logCfg := s.Log.LoggerConfig()
	if g.logLevel != "" {
		logCfg.Level = logger.LogLevel(g.logLevel)
	}
	if g.logJSON {
		logCfg.JSON = true
	}
	if opts.stderr != nil {
		logCfg.Output = opts.stderr
	}
	log := logger.NewLogger(logCfg)
	logger.Init(logCfg)

	llmCfg, err := s.LLMConfig()
	if err != nil {
		return nil, err
	}
	mgrOpts := []llm.Option{llm.WithLogger(log)}
	if opts.dryRun {
		echo := local.New()
		for _, p := range []ai.Provider{ai.ProviderAnthropic, ai.ProviderOpenAI, ai.ProviderGoogle, ai.ProviderLocal} {
			mgrOpts = append(mgrOpts, llm.WithProvider(p, echo))
		}
	}
	mgr, err := llm.NewManager(llmCfg, mgrOpts...)
	if err != nil {
		return nil, fmt.Errorf("configure llm: %w", err)
	}

	return &app{
		settings: s,
		log:      log,
		prompts:  prompt.NewRegistry(s.Paths.Prompts),
		catalog:  config.NewCatalog(s.Paths.Workflows),
		sessions: persist.New(s.Paths.Sessions),
		llm:      mgr,
	}, nil
}

func (a *app) deps() engine.Deps {
	return engine.Deps{
		Prompts:     a.prompts,
		LLM:         a.llm,
		Transformer: transform.New(),
		Validator:   validation.NewManager(),
		Remediator:  validation.NewRemediationManager(),
		Output:      a.sessions,
	}
}

func (a *app) engineOptions() []engine.Option {
	return []engine.Option{
		engine.WithOnStepComplete(func(_ context.Context, r engine.StepResult) {
			a.log.Info("step complete", "step", r.StepName, "index", r.Index, "duration", r.Duration)
		}),
	}
}

func (a *app) context(cmd *cobra.Command) context.Context {
	return logger.ContextWithLogger(cmd.Context(), a.log)
}
