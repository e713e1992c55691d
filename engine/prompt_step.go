package engine

import (
	"context"
	"fmt"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/config"
	"github.com/spetersoncode/lessonflow/llm"
	"github.com/spetersoncode/lessonflow/prompt"
	"github.com/spetersoncode/lessonflow/state"
)

// PromptStep renders a prompt, calls the model and transforms the completion.
type PromptStep struct {
	cfg *config.PromptStep
}

func (s *PromptStep) Name() string           { return s.cfg.Name }
func (s *PromptStep) OutputVariable() string { return s.cfg.OutputVariable }

// Execute runs the prompt step and records its usage in the context.
func (s *PromptStep) Execute(ctx context.Context, ec *state.Context, deps Deps) (any, error) {
	if err := requireDep(s.cfg.Name, deps.Prompts != nil, "prompt registry"); err != nil {
		return nil, err
	}
	if err := requireDep(s.cfg.Name, deps.LLM != nil, "llm"); err != nil {
		return nil, err
	}
	if err := requireDep(s.cfg.Name, deps.Transformer != nil, "transformer"); err != nil {
		return nil, err
	}

	p, err := deps.Prompts.GetPrompt(s.cfg.Prompt)
	if err != nil {
		return nil, err
	}
	if missing := ec.Missing(p.Metadata.Requires...); len(missing) > 0 {
		return nil, &MissingContextVariableError{Step: s.cfg.Name, Names: missing}
	}

	tmpl, err := p.Compile()
	if err != nil {
		return nil, err
	}
	vars := ec.Variables()
	rendered, err := tmpl.Render(vars)
	if err != nil {
		return nil, fmt.Errorf("render prompt %s: %w", p.Path, err)
	}

	opts, err := s.options(vars)
	if err != nil {
		return nil, err
	}

	alias := s.cfg.Model
	if alias == "" {
		alias = p.Metadata.Model
	}

	scope := llm.Scope{WorkflowID: ec.WorkflowID(), StepName: s.cfg.Name}
	raw, err := deps.LLM.Generate(ctx, scope, rendered, alias, opts...)
	ec.SetUsage(s.cfg.Name, deps.LLM.UsageReport(llm.Filter{WorkflowID: scope.WorkflowID, StepName: scope.StepName}).Map())
	if err != nil {
		return nil, err
	}

	out, err := deps.Transformer.Transform(raw, s.cfg.OutputFormat, s.cfg.TransformationRules)
	if err != nil {
		return nil, fmt.Errorf("transform %s output: %w", s.cfg.OutputFormat, err)
	}
	return out, nil
}

func (s *PromptStep) options(vars map[string]any) ([]ai.Option, error) {
	var opts []ai.Option
	if s.cfg.Temperature != nil {
		opts = append(opts, ai.WithTemperature(*s.cfg.Temperature))
	}
	if s.cfg.MaxTokens > 0 {
		opts = append(opts, ai.WithMaxTokens(s.cfg.MaxTokens))
	}
	if s.cfg.SystemPrompt != "" {
		system, err := prompt.Render(s.cfg.SystemPrompt, vars)
		if err != nil {
			return nil, fmt.Errorf("render system prompt: %w", err)
		}
		opts = append(opts, ai.WithSystem(system))
	}
	return opts, nil
}
