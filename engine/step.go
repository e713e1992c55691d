package engine

import (
	"context"
	"fmt"

	"github.com/spetersoncode/lessonflow/config"
	"github.com/spetersoncode/lessonflow/state"
)

// Step is one executable unit of a workflow.
type Step interface {
	// Name returns the step's unique name within its workflow.
	Name() string

	// OutputVariable is the context variable the engine writes the result
	// to, or "" if the step produces none.
	OutputVariable() string

	// Execute runs the step. It must not write its own output variable;
	// the engine does that after a successful run.
	Execute(ctx context.Context, ec *state.Context, deps Deps) (any, error)
}

// NewStep builds the executable step for a decoded step config.
func NewStep(cfg config.Step) (Step, error) {
	switch c := cfg.(type) {
	case *config.PromptStep:
		return &PromptStep{cfg: c}, nil
	case *config.ValidationStep:
		return &ValidationStep{cfg: c}, nil
	case *config.RemediationStep:
		return &RemediationStep{cfg: c}, nil
	case *config.OutputStep:
		return &OutputStep{cfg: c}, nil
	case *config.ConditionalStep, *config.LoopStep, *config.ParallelStep:
		return &placeholderStep{cfg: cfg}, nil
	}
	return nil, fmt.Errorf("unsupported step config %T", cfg)
}

// BuildSteps builds every step of a workflow in declared order.
func BuildSteps(w *config.Workflow) ([]Step, error) {
	steps := make([]Step, 0, len(w.Steps))
	for _, c := range w.Steps {
		s, err := NewStep(c)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// placeholderStep stands in for step types that validate but do not run yet.
type placeholderStep struct {
	cfg config.Step
}

func (p *placeholderStep) Name() string           { return p.cfg.StepName() }
func (p *placeholderStep) OutputVariable() string { return p.cfg.OutputVar() }

func (p *placeholderStep) Execute(context.Context, *state.Context, Deps) (any, error) {
	return nil, fmt.Errorf("%w: %s step %q", ErrStepNotImplemented, p.cfg.StepType(), p.cfg.StepName())
}

// contentOf fetches a required context variable.
func contentOf(ec *state.Context, step, name string) (any, error) {
	v, ok := ec.Get(name)
	if !ok {
		return nil, &MissingContextVariableError{Step: step, Names: []string{name}}
	}
	return v, nil
}

func requireDep(step string, ok bool, what string) error {
	if ok {
		return nil
	}
	return fmt.Errorf("step %q: %w: %s", step, ErrMissingDependency, what)
}
