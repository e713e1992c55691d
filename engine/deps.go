package engine

import (
	"context"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/config"
	"github.com/spetersoncode/lessonflow/llm"
	"github.com/spetersoncode/lessonflow/prompt"
	"github.com/spetersoncode/lessonflow/state"
	"github.com/spetersoncode/lessonflow/validation"
)

// PromptRegistry loads prompt files by path.
type PromptRegistry interface {
	GetPrompt(path string) (*prompt.Prompt, error)
}

// LLM generates completions and reports usage. *llm.Manager implements it.
type LLM interface {
	Generate(ctx context.Context, scope llm.Scope, prompt, alias string, opts ...ai.Option) (string, error)
	UsageReport(filter llm.Filter) llm.UsageReport
}

// ContentTransformer turns a raw completion into a step result.
type ContentTransformer interface {
	Transform(raw string, format config.OutputFormat, rules []string) (any, error)
}

// ValidationManager runs named validators.
type ValidationManager interface {
	Validate(ctx context.Context, content any, names []string, vars map[string]any) ([]validation.Issue, error)
}

// RemediationManager repairs content.
type RemediationManager interface {
	Remediate(ctx context.Context, content any, issues []validation.Issue, cfg validation.Config) (*validation.Remediation, error)
}

// OutputWriter stores output files for a session and returns where they went.
type OutputWriter interface {
	WriteOutput(sessionID, path string, data []byte) (string, error)
}

// Deps bundles what steps need to execute.
type Deps struct {
	Prompts     PromptRegistry
	LLM         LLM
	Transformer ContentTransformer
	Validator   ValidationManager
	Remediator  RemediationManager
	Output      OutputWriter
}

// ruleLister and nameLister are implemented by the transformer and the
// validation managers. Deps that implement neither skip name checks.
type ruleLister interface{ Rules() []string }

type nameLister interface{ Names() []string }

func vocabulary(deps Deps) config.Vocabulary {
	var v config.Vocabulary
	if l, ok := deps.Transformer.(ruleLister); ok {
		v.Rules = l.Rules()
	}
	if l, ok := deps.Validator.(nameLister); ok {
		v.Validators = l.Names()
	}
	if l, ok := deps.Remediator.(nameLister); ok {
		v.Remediators = l.Names()
	}
	return v
}

// SessionStore persists sessions. *persist.Manager implements it.
type SessionStore interface {
	CreateSession(id string) (string, string, error)
	SaveSessionState(id string, ec *state.Context) error
	LoadSessionState(id string) (*state.Context, error)
	SaveConfig(id string, w *config.Workflow) error
	LoadConfig(id string) (*config.Workflow, error)
	Archive(id string) (string, error)
	Lock(id string) (func() error, error)
}

// Catalog looks up workflow documents by name. *config.Catalog implements it.
type Catalog interface {
	Get(name string) (*config.Workflow, error)
}
