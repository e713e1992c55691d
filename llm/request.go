package llm

import (
	"time"

	ai "github.com/spetersoncode/lessonflow"
)

// Status is the lifecycle state of a Request.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Scope attributes a call to a workflow run and step.
type Scope struct {
	WorkflowID string
	StepName   string
}

// Request is one entry of the manager's history. It is appended as pending
// when a call starts and transitions exactly once to success or error.
type Request struct {
	ID           string        `json:"id"`
	Prompt       string        `json:"prompt"`
	Provider     ai.Provider   `json:"provider"`
	Model        string        `json:"model"`
	WorkflowID   string        `json:"workflow_id,omitempty"`
	StepName     string        `json:"step_name,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
	InputTokens  *int          `json:"input_tokens"`
	OutputTokens *int          `json:"output_tokens"`
	Completion   string        `json:"completion,omitempty"`
	Duration     time.Duration `json:"duration"`
	Cost         *float64      `json:"cost"`
	Attempts     int           `json:"attempts"`
	Error        string        `json:"error,omitempty"`
	Status       Status        `json:"status"`
}

// Key is the usage report row key, "provider/model".
func (r Request) Key() string {
	return string(r.Provider) + "/" + r.Model
}

// Filter selects requests from the history. Empty fields match anything.
type Filter struct {
	WorkflowID string
	StepName   string
	Provider   ai.Provider
	Model      string
}

// Match reports whether r passes the filter.
func (f Filter) Match(r Request) bool {
	return (f.WorkflowID == "" || f.WorkflowID == r.WorkflowID) &&
		(f.StepName == "" || f.StepName == r.StepName) &&
		(f.Provider == "" || f.Provider == r.Provider) &&
		(f.Model == "" || f.Model == r.Model)
}
