// Package engine runs workflow documents.
//
// A [Workflow] turns each step of a [config.Workflow] into an executable
// [Step] and runs them in declared order against a [state.Context]. After
// every step the context is persisted, so a run that stops for any reason can
// be picked up with [Workflow.Resume] without repeating finished steps.
//
// Steps reach their collaborators through [Deps]:
//
//   - prompt: loads a prompt from the registry, renders it with the context
//     variables, calls the LLM and transforms the completion
//   - validation: runs named validators over a context variable
//   - remediation: repairs content using the issues a validation step found
//   - output: serializes content and hands it to the output writer
//
// conditional, loop and parallel steps validate but fail with
// [ErrStepNotImplemented] when executed.
//
// [Engine] ties a workflow catalog and a session store together:
//
//	eng := engine.New(deps, sessions, catalog)
//	res, err := eng.Execute(ctx, "course_outline", map[string]any{"topic": "Algebra"}, "")
//	// later, after a failure
//	res, err = eng.Resume(ctx, res.SessionID, "")
package engine
