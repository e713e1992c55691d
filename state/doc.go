// Package state provides the execution context shared by the steps of a
// workflow run.
//
// A [Context] is a thread-safe variable map plus the run's bookkeeping:
// identifiers, the ordered ledger of completed steps, per-step outputs and
// usage snapshots, and the run status. It serializes to JSON so a session can
// be persisted after every step and reloaded on resume.
//
//	ec := state.New(workflowID, "course_outline", sessionID, map[string]any{"topic": "Algebra"})
//	ec.Set("outline", text)
//	ec.MarkStepCompleted("outline")
//
// Numbers reloaded from JSON come back as float64; use [Context.GetInt] and
// [Context.GetFloat] for lenient numeric access.
package state
