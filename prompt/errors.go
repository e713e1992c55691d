package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPromptNotFound is returned when the registry has no prompt at a path.
var ErrPromptNotFound = errors.New("prompt not found")

// ErrContractMismatch is returned when a library template's declared
// variables differ from the variables it actually references.
var ErrContractMismatch = errors.New("template variable contract mismatch")

// MissingVariableError lists every variable a render was missing.
type MissingVariableError struct {
	Names []string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing template variables: %s", strings.Join(e.Names, ", "))
}

// UnknownTemplateError is returned by Library.Get for an unregistered name.
type UnknownTemplateError struct {
	Name  string
	Known []string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}
