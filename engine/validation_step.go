package engine

import (
	"context"

	"github.com/spetersoncode/lessonflow/config"
	"github.com/spetersoncode/lessonflow/state"
	"github.com/spetersoncode/lessonflow/validation"
)

// ValidationStep checks a context variable with named validators and stores
// the issues found.
type ValidationStep struct {
	cfg *config.ValidationStep
}

func (s *ValidationStep) Name() string           { return s.cfg.Name }
func (s *ValidationStep) OutputVariable() string { return s.cfg.OutputVariable }

func (s *ValidationStep) Execute(ctx context.Context, ec *state.Context, deps Deps) (any, error) {
	if err := requireDep(s.cfg.Name, deps.Validator != nil, "validator"); err != nil {
		return nil, err
	}
	content, err := contentOf(ec, s.cfg.Name, s.cfg.ContentVariable)
	if err != nil {
		return nil, err
	}

	issues, err := deps.Validator.Validate(ctx, content, s.cfg.Validators, ec.Variables())
	if err != nil {
		return nil, err
	}
	if s.cfg.FailOnError && validation.HasErrors(issues) {
		return nil, &ValidationFailedError{Step: s.cfg.Name, Issues: issues}
	}
	return issues, nil
}

// RemediationStep repairs a context variable using previously found issues.
// Its result is a map with "content" and "actions".
type RemediationStep struct {
	cfg *config.RemediationStep
}

func (s *RemediationStep) Name() string           { return s.cfg.Name }
func (s *RemediationStep) OutputVariable() string { return s.cfg.OutputVariable }

func (s *RemediationStep) Execute(ctx context.Context, ec *state.Context, deps Deps) (any, error) {
	if err := requireDep(s.cfg.Name, deps.Remediator != nil, "remediator"); err != nil {
		return nil, err
	}
	if missing := ec.Missing(s.cfg.ContentVariable, s.cfg.IssuesVariable); len(missing) > 0 {
		return nil, &MissingContextVariableError{Step: s.cfg.Name, Names: missing}
	}
	content, _ := ec.Get(s.cfg.ContentVariable)
	raw, _ := ec.Get(s.cfg.IssuesVariable)

	issues, err := validation.IssuesFrom(raw)
	if err != nil {
		return nil, err
	}

	rem, err := deps.Remediator.Remediate(ctx, content, issues, validation.Config{
		Remediators: s.cfg.Remediators,
		Options:     s.cfg.Options,
	})
	if err != nil {
		return nil, err
	}
	return rem.Map(), nil
}
