package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWorkflowNotFound is returned when a catalog has no workflow by that name.
var ErrWorkflowNotFound = errors.New("workflow not found")

// ValidationError describes one problem with a workflow document.
// Index is -1 for document-level problems.
type ValidationError struct {
	Step    string
	Index   int
	Field   string
	Value   any
	Allowed []string
	Reason  string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Index >= 0 {
		if e.Step != "" {
			fmt.Fprintf(&b, "step %q (#%d)", e.Step, e.Index)
		} else {
			fmt.Fprintf(&b, "step #%d", e.Index)
		}
	} else {
		b.WriteString("workflow")
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	if e.Value != nil && e.Value != "" {
		fmt.Fprintf(&b, " = %v", e.Value)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if len(e.Allowed) > 0 {
		fmt.Fprintf(&b, " (allowed: %s)", strings.Join(e.Allowed, ", "))
	}
	return b.String()
}

// ValidationErrors collects every problem found in one document.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("invalid workflow (%d problems): %s", len(e), strings.Join(msgs, "; "))
}

func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, ve := range e {
		errs[i] = ve
	}
	return errs
}
