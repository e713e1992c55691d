// Command lessonflow runs declarative LLM content-generation workflows.
//
// Usage:
//
//	lessonflow run course_outline --var topic=Algebra
//	lessonflow run ./workflows/lesson.yaml --dry-run --output-json
//	lessonflow resume 6f1c... --from-step draft
//	lessonflow list-workflows
//	lessonflow list-prompts --tag lesson
//
// Settings come from lessonflow.yaml, LESSONFLOW_* environment variables and
// a .env file; see package settings.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
