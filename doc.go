// Package lessonflow is a declarative workflow engine for LLM-backed content
// generation.
//
// A workflow is a YAML document listing steps (prompt, validation,
// remediation, output) that run in order against a shared execution context.
// Every step is persisted as soon as it finishes, so an interrupted run can be
// resumed from the session directory without re-running completed steps.
//
// The root package holds the types shared by every layer:
//
//   - [Generator]: the single-turn provider contract implemented by the
//     Anthropic, OpenAI, Google and local adapters
//   - [GenerateRequest], [Response] and [Usage]
//   - categorized errors ([CategorizedError]) used to decide what to retry
//
// The main entry points live in subpackages:
//
//   - [github.com/spetersoncode/lessonflow/engine]: workflow execution and resume
//   - [github.com/spetersoncode/lessonflow/llm]: model aliases, retrying
//     generation, request history, cost and usage reports
//   - [github.com/spetersoncode/lessonflow/config]: workflow documents and
//     step validation
//   - [github.com/spetersoncode/lessonflow/prompt]: prompt templates, the
//     template library and the on-disk prompt registry
//   - [github.com/spetersoncode/lessonflow/persist]: session directories,
//     locking and archives
//   - [github.com/spetersoncode/lessonflow/settings]: application settings
//
// # Basic Usage
//
//	mgr, err := llm.NewManager(llm.Config{
//	    DefaultProvider: lessonflow.ProviderAnthropic,
//	    DefaultModel:    "claude-sonnet-4-5",
//	    APIKeys:         llm.APIKeys{Anthropic: os.Getenv("ANTHROPIC_API_KEY")},
//	})
//	if err != nil {
//	    return err
//	}
//
//	registry := prompt.NewRegistry("prompts")
//	sessions := persist.New(".lessonflow/sessions")
//	catalog := config.NewCatalog("workflows")
//
//	eng := engine.New(engine.Deps{
//	    Prompts:     registry,
//	    LLM:         mgr,
//	    Transformer: transform.New(),
//	    Validator:   validation.NewManager(),
//	    Remediator:  validation.NewRemediationManager(),
//	}, sessions, catalog)
//
//	result, err := eng.Execute(ctx, "course_outline", map[string]any{"topic": "Algebra"}, "")
package lessonflow
