// Package llm is the single entry point workflows use to talk to models.
//
// A [Manager] resolves model aliases to a provider and model, runs each call
// under the configured retry policy, records every request in an in-memory
// history and derives cost and usage reports from it.
//
// Attribution is explicit: every call carries a [Scope] naming the workflow
// and step it belongs to, so one Manager can serve concurrent workflows.
//
//	mgr, err := llm.NewManager(llm.Config{
//	    DefaultProvider: lessonflow.ProviderAnthropic,
//	    APIKeys:         llm.APIKeys{Anthropic: os.Getenv("ANTHROPIC_API_KEY")},
//	})
//	text, err := mgr.Generate(ctx, llm.Scope{WorkflowID: id, StepName: "outline"}, prompt, "fast")
//	report := mgr.UsageReport(llm.Filter{WorkflowID: id})
package llm
