package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spetersoncode/lessonflow/config"
	"github.com/spetersoncode/lessonflow/internal/logger"
	"github.com/spetersoncode/lessonflow/llm"
	"github.com/spetersoncode/lessonflow/state"
)

// TotalUsageKey is the usage_stats entry holding the whole run's usage report.
const TotalUsageKey = "_total"

// Result summarizes a finished run.
type Result struct {
	SessionID  string          `json:"session_id"`
	WorkflowID string          `json:"workflow_id"`
	Workflow   string          `json:"workflow"`
	Status     state.Status    `json:"status"`
	Steps      []string        `json:"steps"`
	Usage      llm.UsageReport `json:"usage"`
	Archive    string          `json:"archive,omitempty"`
	Context    *state.Context  `json:"-"`
}

// Workflow executes one workflow document.
type Workflow struct {
	cfg      *config.Workflow
	steps    []Step
	deps     Deps
	sessions SessionStore
	opts     *Options
}

// NewWorkflow builds the executable steps of cfg.
func NewWorkflow(cfg *config.Workflow, deps Deps, sessions SessionStore, opts ...Option) (*Workflow, error) {
	steps, err := BuildSteps(cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.CheckNames(vocabulary(deps)); err != nil {
		return nil, err
	}
	return newWorkflow(cfg, steps, deps, sessions, opts...), nil
}

func newWorkflow(cfg *config.Workflow, steps []Step, deps Deps, sessions SessionStore, opts ...Option) *Workflow {
	if deps.Output == nil {
		if w, ok := sessions.(OutputWriter); ok {
			deps.Output = w
		}
	}
	return &Workflow{cfg: cfg, steps: steps, deps: deps, sessions: sessions, opts: ApplyOptions(opts...)}
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.cfg.Name }

// Steps returns the executable steps in declared order.
func (w *Workflow) Steps() []Step { return w.steps }

// Execute starts a new run. An empty sessionID creates a new session.
func (w *Workflow) Execute(ctx context.Context, vars map[string]any, sessionID string) (*Result, error) {
	id, _, err := w.sessions.CreateSession(sessionID)
	if err != nil {
		return nil, err
	}
	unlock, err := w.sessions.Lock(id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := w.sessions.SaveConfig(id, w.cfg); err != nil {
		return nil, err
	}

	ec := state.New(uuid.NewString(), w.cfg.Name, id, vars)
	return w.run(ctx, ec, 0)
}

// Resume continues a stored session. With fromStep set, the run restarts at
// that step and everything after it runs again. Otherwise it starts after the
// last completed step; sessions without a completion ledger start at the
// first step whose output variable is missing.
func (w *Workflow) Resume(ctx context.Context, sessionID, fromStep string) (*Result, error) {
	unlock, err := w.sessions.Lock(sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ec, err := w.sessions.LoadSessionState(sessionID)
	if err != nil {
		return nil, err
	}

	start, err := w.resumeIndex(ec, fromStep)
	if err != nil {
		return nil, err
	}
	return w.run(ctx, ec, start)
}

func (w *Workflow) resumeIndex(ec *state.Context, fromStep string) (int, error) {
	if fromStep != "" {
		idx := w.cfg.StepIndex(fromStep)
		if idx < 0 {
			return 0, fmt.Errorf("%w: %q in workflow %q", ErrUnknownStep, fromStep, w.cfg.Name)
		}
		var rerun []string
		for _, s := range w.steps[idx:] {
			rerun = append(rerun, s.Name())
		}
		ec.ForgetSteps(rerun...)
		return idx, nil
	}

	if done := ec.CompletedSteps(); len(done) > 0 {
		last := -1
		for _, name := range done {
			last = max(last, w.cfg.StepIndex(name))
		}
		return last + 1, nil
	}

	for i, s := range w.steps {
		out := s.OutputVariable()
		if out == "" || !ec.Has(out) {
			return i, nil
		}
	}
	return len(w.steps), nil
}

func (w *Workflow) run(ctx context.Context, ec *state.Context, start int) (*Result, error) {
	if w.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.opts.Timeout)
		defer cancel()
	}

	id := ec.SessionID()
	log := logger.FromContext(ctx).With("workflow", w.cfg.Name, "workflow_id", ec.WorkflowID(), "session_id", id)

	ec.MarkRunning()
	if err := w.sessions.SaveSessionState(id, ec); err != nil {
		return nil, err
	}
	log.Info("workflow started", "steps", len(w.steps), "start", start)

	ran := make(map[string]bool, len(w.steps))

	for i := start; i < len(w.steps); i++ {
		step := w.steps[i]
		if ec.IsStepCompleted(step.Name()) {
			log.Debug("step already completed, skipping", "step", step.Name())
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, w.fail(log, ec, i, err)
		}

		ec.BeginStep(step.Name())
		ran[step.Name()] = true
		stepLog := log.With("step", step.Name(), "index", i)
		stepLog.Info("step started")
		began := time.Now()

		out, err := w.execute(ctx, step, ec)
		if err != nil {
			return nil, w.fail(stepLog, ec, i, err)
		}

		ec.RecordStepOutput(step.Name(), step.OutputVariable(), out)
		ec.MarkStepCompleted(step.Name())
		if err := w.sessions.SaveSessionState(id, ec); err != nil {
			return nil, &WorkflowError{Workflow: w.cfg.Name, Step: step.Name(), Index: i, Err: err}
		}
		stepLog.Info("step completed", "duration", time.Since(began))

		if w.opts.OnStepComplete != nil {
			w.opts.OnStepComplete(ctx, StepResult{StepName: step.Name(), Index: i, Output: out, Duration: time.Since(began)})
		}
	}

	var usage llm.UsageReport
	if w.deps.LLM != nil {
		usage = w.totalUsage(log, ec, ran)
		ec.SetUsage(TotalUsageKey, usage.Map())
	}
	ec.MarkCompleted()
	if err := w.sessions.SaveSessionState(id, ec); err != nil {
		return nil, err
	}
	archive, err := w.sessions.Archive(id)
	if err != nil {
		return nil, err
	}
	log.Info("workflow completed", "archive", archive, "cost", usage.Totals.Cost)

	return &Result{
		SessionID:  id,
		WorkflowID: ec.WorkflowID(),
		Workflow:   w.cfg.Name,
		Status:     ec.Status(),
		Steps:      ec.CompletedSteps(),
		Usage:      usage,
		Archive:    archive,
		Context:    ec,
	}, nil
}

// totalUsage combines this run's requests for the steps it executed with the
// stored snapshots of completed steps it skipped.
func (w *Workflow) totalUsage(log logger.Logger, ec *state.Context, ran map[string]bool) llm.UsageReport {
	total := llm.UsageReport{Models: make(map[string]llm.UsageRow)}
	for _, s := range w.steps {
		name := s.Name()
		if ran[name] {
			total.Merge(w.deps.LLM.UsageReport(llm.Filter{WorkflowID: ec.WorkflowID(), StepName: name}))
			continue
		}
		if !ec.IsStepCompleted(name) {
			continue
		}
		stored, ok := ec.Usage(name)
		if !ok {
			continue
		}
		prev, err := llm.UsageReportFromMap(stored)
		if err != nil {
			log.Warn("ignoring unreadable usage snapshot", "step", name, "error", err)
			continue
		}
		total.Merge(prev)
	}
	return total
}

func (w *Workflow) execute(ctx context.Context, step Step, ec *state.Context) (any, error) {
	if w.opts.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.opts.StepTimeout)
		defer cancel()
	}
	return step.Execute(ctx, ec, w.deps)
}

// fail records the failure in the context and persists it before returning
// the wrapped error.
func (w *Workflow) fail(log logger.Logger, ec *state.Context, index int, err error) error {
	name := w.steps[index].Name()
	ec.MarkFailed(name, err)
	wfErr := &WorkflowError{Workflow: w.cfg.Name, Step: name, Index: index, Err: err}
	if saveErr := w.sessions.SaveSessionState(ec.SessionID(), ec); saveErr != nil {
		log.Error("failed to persist failed run", "error", saveErr)
		return errors.Join(wfErr, saveErr)
	}
	log.Error("step failed", "error", err)
	return wfErr
}
