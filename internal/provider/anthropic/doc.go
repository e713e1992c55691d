// Package anthropic adapts the Anthropic Messages API to [lessonflow.Generator].
//
// Each call is a single user turn with an optional system prompt. The SDK's
// own retries are disabled; retrying is the job of the LLM manager, which
// relies on the categorized errors returned here.
//
//	gen := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//	resp, err := gen.Generate(ctx, lessonflow.GenerateRequest{Prompt: "Summarize photosynthesis."})
package anthropic
