package state

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// Status is the lifecycle state of a workflow run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Context holds the mutable variables and metadata of one workflow run.
type Context struct {
	mu sync.RWMutex

	variables      map[string]any
	workflowID     string
	workflowName   string
	sessionID      string
	currentStep    string
	stepOutputs    map[string]any
	usageStats     map[string]any
	completedSteps []string
	createdAt      time.Time
	updatedAt      time.Time
	finishedAt     *time.Time
	status         Status
	errMsg         string
	failedStep     string

	now func() time.Time
}

// New creates a running context seeded with a shallow copy of vars.
func New(workflowID, workflowName, sessionID string, vars map[string]any) *Context {
	c := &Context{
		variables:    make(map[string]any, len(vars)),
		workflowID:   workflowID,
		workflowName: workflowName,
		sessionID:    sessionID,
		stepOutputs:  make(map[string]any),
		usageStats:   make(map[string]any),
		status:       StatusRunning,
		now:          func() time.Time { return time.Now().UTC() },
	}
	maps.Copy(c.variables, vars)
	c.createdAt = c.now()
	c.updatedAt = c.createdAt
	return c
}

func (c *Context) touch() {
	c.updatedAt = c.clock()()
}

func (c *Context) clock() func() time.Time {
	if c.now == nil {
		return func() time.Time { return time.Now().UTC() }
	}
	return c.now
}

// Get retrieves a variable.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.variables[key]
	return v, ok
}

// GetString retrieves a string variable. Returns empty string if not found or not a string.
func (c *Context) GetString(key string) string {
	v, ok := c.Get(key)
	if !ok {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return ""
}

// GetInt retrieves an int variable. Returns 0 if not found or wrong type.
// Handles float64 from JSON unmarshaling.
func (c *Context) GetInt(key string) int {
	v, ok := c.Get(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	}
	return 0
}

// GetFloat retrieves a float64 variable. Returns 0.0 if not found or wrong type.
func (c *Context) GetFloat(key string) float64 {
	v, ok := c.Get(key)
	if !ok {
		return 0.0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0.0
}

// GetBool retrieves a bool variable. Returns false if not found or not a bool.
func (c *Context) GetBool(key string) bool {
	v, ok := c.Get(key)
	if !ok {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

// Set stores a variable.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variables[key] = value
	c.touch()
}

// Delete removes a variable.
func (c *Context) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.variables, key)
	c.touch()
}

// Has returns true if the variable exists.
func (c *Context) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.variables[key]
	return ok
}

// Keys returns the variable names in sorted order.
func (c *Context) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.variables))
}

// Missing returns the names from keys that are not set, in input order.
func (c *Context) Missing(keys ...string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var missing []string
	for _, k := range keys {
		if _, ok := c.variables[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// Variables returns a shallow copy of the variable map.
func (c *Context) Variables() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.variables)
}

// Merge copies vars into the context, overwriting existing keys.
func (c *Context) Merge(vars map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	maps.Copy(c.variables, vars)
	c.touch()
}

// Len returns the number of variables.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.variables)
}

func (c *Context) WorkflowID() string   { return c.readString(&c.workflowID) }
func (c *Context) WorkflowName() string { return c.readString(&c.workflowName) }
func (c *Context) SessionID() string    { return c.readString(&c.sessionID) }
func (c *Context) CurrentStep() string  { return c.readString(&c.currentStep) }
func (c *Context) Error() string        { return c.readString(&c.errMsg) }
func (c *Context) FailedStep() string   { return c.readString(&c.failedStep) }

func (c *Context) readString(p *string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *p
}

// Status returns the run status.
func (c *Context) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Context) CreatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.createdAt
}

func (c *Context) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// FinishedAt returns when the run completed or failed, if it has.
func (c *Context) FinishedAt() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.finishedAt == nil {
		return time.Time{}, false
	}
	return *c.finishedAt, true
}

// BeginStep records the step currently executing.
func (c *Context) BeginStep(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentStep = name
	c.touch()
}

// RecordStepOutput stores a step result both as a variable and in step_outputs.
func (c *Context) RecordStepOutput(step, variable string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if variable != "" {
		c.variables[variable] = value
	}
	c.stepOutputs[step] = value
	c.touch()
}

// StepOutput returns the recorded output of a step.
func (c *Context) StepOutput(step string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.stepOutputs[step]
	return v, ok
}

// SetUsage stores the usage snapshot of a step.
func (c *Context) SetUsage(step string, usage any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usageStats[step] = usage
	c.touch()
}

// Usage returns the usage snapshot of a step.
func (c *Context) Usage(step string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.usageStats[step]
	return v, ok
}

// UsageStats returns a shallow copy of all per-step usage snapshots.
func (c *Context) UsageStats() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.usageStats)
}

// MarkStepCompleted appends a step to the completion ledger. Repeats are ignored.
func (c *Context) MarkStepCompleted(step string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(c.completedSteps, step) {
		c.completedSteps = append(c.completedSteps, step)
	}
	c.touch()
}

// CompletedSteps returns the completion ledger in completion order.
func (c *Context) CompletedSteps() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.completedSteps)
}

// IsStepCompleted reports whether step is in the ledger.
func (c *Context) IsStepCompleted(step string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.completedSteps, step)
}

// ForgetSteps removes the given steps from the ledger so they run again.
func (c *Context) ForgetSteps(steps ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completedSteps = slices.DeleteFunc(c.completedSteps, func(s string) bool {
		return slices.Contains(steps, s)
	})
	c.touch()
}

// MarkRunning clears any failure and puts the run back into the running state.
func (c *Context) MarkRunning() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusRunning
	c.errMsg = ""
	c.failedStep = ""
	c.finishedAt = nil
	c.touch()
}

// MarkCompleted finishes the run successfully.
func (c *Context) MarkCompleted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusCompleted
	c.currentStep = ""
	c.finish()
}

// MarkFailed finishes the run with the failing step and its error.
func (c *Context) MarkFailed(step string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusFailed
	c.failedStep = step
	if err != nil {
		c.errMsg = err.Error()
	}
	c.finish()
}

func (c *Context) finish() {
	now := c.clock()()
	c.finishedAt = &now
	c.updatedAt = now
}

// Snapshot is the serialized form of a Context.
type Snapshot struct {
	Variables      map[string]any `json:"variables"`
	WorkflowID     string         `json:"workflow_id"`
	WorkflowName   string         `json:"workflow_name"`
	SessionID      string         `json:"session_id"`
	CurrentStep    string         `json:"current_step,omitempty"`
	StepOutputs    map[string]any `json:"step_outputs"`
	UsageStats     map[string]any `json:"usage_stats"`
	CompletedSteps []string       `json:"completed_steps"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
	Status         Status         `json:"status"`
	Error          string         `json:"error,omitempty"`
	FailedStep     string         `json:"failed_step,omitempty"`
}

// Snapshot returns a copy of the context's current state.
func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Snapshot{
		Variables:      maps.Clone(c.variables),
		WorkflowID:     c.workflowID,
		WorkflowName:   c.workflowName,
		SessionID:      c.sessionID,
		CurrentStep:    c.currentStep,
		StepOutputs:    maps.Clone(c.stepOutputs),
		UsageStats:     maps.Clone(c.usageStats),
		CompletedSteps: slices.Clone(c.completedSteps),
		CreatedAt:      c.createdAt,
		UpdatedAt:      c.updatedAt,
		Status:         c.status,
		Error:          c.errMsg,
		FailedStep:     c.failedStep,
	}
	if c.finishedAt != nil {
		t := *c.finishedAt
		s.FinishedAt = &t
	}
	if s.CompletedSteps == nil {
		s.CompletedSteps = []string{}
	}
	return s
}

// FromSnapshot rebuilds a Context from its serialized form.
func FromSnapshot(s Snapshot) *Context {
	c := New(s.WorkflowID, s.WorkflowName, s.SessionID, s.Variables)
	if s.StepOutputs != nil {
		c.stepOutputs = maps.Clone(s.StepOutputs)
	}
	if s.UsageStats != nil {
		c.usageStats = maps.Clone(s.UsageStats)
	}
	c.completedSteps = slices.Clone(s.CompletedSteps)
	c.currentStep = s.CurrentStep
	if !s.CreatedAt.IsZero() {
		c.createdAt = s.CreatedAt
	}
	if !s.UpdatedAt.IsZero() {
		c.updatedAt = s.UpdatedAt
	}
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		c.finishedAt = &t
	}
	if s.Status != "" {
		c.status = s.Status
	}
	c.errMsg = s.Error
	c.failedStep = s.FailedStep
	return c
}

// MarshalJSON implements json.Marshaler.
func (c *Context) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Snapshot())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Context) UnmarshalJSON(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode execution context: %w", err)
	}
	restored := FromSnapshot(s)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variables = restored.variables
	c.workflowID = restored.workflowID
	c.workflowName = restored.workflowName
	c.sessionID = restored.sessionID
	c.currentStep = restored.currentStep
	c.stepOutputs = restored.stepOutputs
	c.usageStats = restored.usageStats
	c.completedSteps = restored.completedSteps
	c.createdAt = restored.createdAt
	c.updatedAt = restored.updatedAt
	c.finishedAt = restored.finishedAt
	c.status = restored.status
	c.errMsg = restored.errMsg
	c.failedStep = restored.failedStep
	c.now = restored.now
	return nil
}
