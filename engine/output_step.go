package engine

import (
	"context"
	"fmt"

	"github.com/spetersoncode/lessonflow/config"
	"github.com/spetersoncode/lessonflow/prompt"
	"github.com/spetersoncode/lessonflow/state"
	"github.com/spetersoncode/lessonflow/transform"
)

// OutputStep serializes a context variable and writes it through the output
// writer. Its result is the path written.
type OutputStep struct {
	cfg *config.OutputStep
}

func (s *OutputStep) Name() string           { return s.cfg.Name }
func (s *OutputStep) OutputVariable() string { return s.cfg.OutputVariable }

func (s *OutputStep) Execute(_ context.Context, ec *state.Context, deps Deps) (any, error) {
	if err := requireDep(s.cfg.Name, deps.Output != nil, "output writer"); err != nil {
		return nil, err
	}
	content, err := contentOf(ec, s.cfg.Name, s.cfg.ContentVariable)
	if err != nil {
		return nil, err
	}

	path, err := prompt.Render(s.cfg.OutputPath, ec.Variables())
	if err != nil {
		return nil, fmt.Errorf("render output path: %w", err)
	}

	data, err := transform.Serialize(content, s.cfg.Format)
	if err != nil {
		return nil, err
	}

	written, err := deps.Output.WriteOutput(ec.SessionID(), path, data)
	if err != nil {
		return nil, err
	}
	return written, nil
}
