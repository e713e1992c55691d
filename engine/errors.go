package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spetersoncode/lessonflow/validation"
)

var (
	// ErrStepNotImplemented is returned when a reserved step type is executed.
	ErrStepNotImplemented = errors.New("step type not implemented")

	// ErrUnknownStep is returned when resume names a step the workflow lacks.
	ErrUnknownStep = errors.New("unknown step")

	// ErrMissingDependency is returned when a step needs a collaborator Deps lacks.
	ErrMissingDependency = errors.New("missing dependency")
)

// WorkflowError wraps the error of the step that stopped a run.
type WorkflowError struct {
	Workflow string
	Step     string
	Index    int
	Err      error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("workflow %q: step %q (#%d) failed: %v", e.Workflow, e.Step, e.Index, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// MissingContextVariableError lists context variables a step needs but the
// context lacks.
type MissingContextVariableError struct {
	Step  string
	Names []string
}

func (e *MissingContextVariableError) Error() string {
	return fmt.Sprintf("step %q: missing context variables: %s", e.Step, strings.Join(e.Names, ", "))
}

// ValidationFailedError is returned by a validation step with fail_on_error
// when a validator reports an error-severity issue.
type ValidationFailedError struct {
	Step   string
	Issues []validation.Issue
}

func (e *ValidationFailedError) Error() string {
	var msgs []string
	for _, i := range e.Issues {
		if i.Severity == validation.SeverityError {
			msgs = append(msgs, i.Validator+": "+i.Message)
		}
	}
	return fmt.Sprintf("step %q: validation failed: %s", e.Step, strings.Join(msgs, "; "))
}
