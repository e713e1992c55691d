package llm

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/google/uuid"
	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/internal/logger"
	"github.com/spetersoncode/lessonflow/internal/retry"
	"github.com/spetersoncode/lessonflow/model"
)

// Option configures a Manager.
type Option func(*Manager)

// WithProvider registers the generator for a provider, taking precedence over
// adapters built from API keys.
func WithProvider(p ai.Provider, g ai.Generator) Option {
	return func(m *Manager) {
		m.generators[p] = g
	}
}

// WithLogger sets the logger for retries and alias fallbacks.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithEvents sets a channel receiving request and retry events.
// Events are sent non-blocking; if the channel is full, events are dropped.
func WithEvents(ch chan<- Event) Option {
	return func(m *Manager) {
		m.events = ch
	}
}

// WithDefaultOptions sets options applied before per-call options.
func WithDefaultOptions(opts ...ai.Option) Option {
	return func(m *Manager) {
		m.defaultOpts = append(m.defaultOpts, opts...)
	}
}

// Manager resolves aliases, generates with retries and keeps the request
// history. It is safe for concurrent use.
type Manager struct {
	defaultProvider ai.Provider
	defaultModel    string
	aliasMode       AliasMode
	aliases         map[string]string
	rates           *model.RateTable
	retryConfig     retry.Config
	timeout         time.Duration
	apiKeys         APIKeys
	logger          logger.Logger
	events          chan<- Event
	defaultOpts     []ai.Option
	now             func() time.Time

	genMu      sync.RWMutex
	generators map[ai.Provider]ai.Generator

	mu      sync.Mutex
	history []*Request
}

// NewManager creates a manager. Configured aliases and rates are layered over
// the built-in ones.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	aliases := maps.Clone(cfg.Aliases)
	if aliases == nil {
		aliases = make(map[string]string)
	}
	if err := mergo.Merge(&aliases, BuiltinAliases()); err != nil {
		return nil, err
	}

	rates, err := model.NewRateTable(cfg.Rates, cfg.ProviderRates)
	if err != nil {
		return nil, err
	}

	retryConfig := retry.DefaultConfig()
	if cfg.Retry != nil {
		retryConfig = *cfg.Retry
	}
	if cfg.RetryTransientOnly && retryConfig.RetryIf == nil {
		retryConfig.RetryIf = retry.IsTransient
	}

	mode := cfg.AliasMode
	if mode == "" {
		mode = AliasLenient
	}

	m := &Manager{
		defaultProvider: cfg.DefaultProvider,
		defaultModel:    cfg.DefaultModel,
		aliasMode:       mode,
		aliases:         aliases,
		rates:           rates,
		retryConfig:     retryConfig,
		timeout:         cfg.RequestTimeout,
		apiKeys:         cfg.APIKeys,
		logger:          logger.GetDefault(),
		now:             time.Now,
		generators:      make(map[ai.Provider]ai.Generator),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Generate resolves alias, calls the provider under the retry policy and
// returns the completion text. Every call is recorded in the history; a
// failed call returns *RequestError wrapping the last provider error.
func (m *Manager) Generate(ctx context.Context, scope Scope, prompt, alias string, opts ...ai.Option) (string, error) {
	provider, modelID, err := m.ResolveModelAlias(alias)
	if err != nil {
		return "", err
	}

	options := ai.ApplyOptions(append(slices.Clone(m.defaultOpts), opts...)...)
	req := ai.GenerateRequest{
		Prompt:      prompt,
		System:      options.System,
		Model:       modelID,
		MaxTokens:   options.MaxTokens,
		Temperature: options.Temperature,
	}

	rec := m.begin(scope, prompt, provider, modelID)
	log := m.logger.With("request_id", rec.ID, "provider", provider, "model", modelID, "workflow_id", scope.WorkflowID, "step", scope.StepName)

	start := time.Now()
	emit(m.events, Event{Type: EventRequestStart, RequestID: rec.ID, Scope: scope, Provider: provider, Model: modelID})

	gen, err := m.generator(ctx, provider, modelID)
	if err != nil {
		return "", m.fail(rec, scope, 0, time.Since(start), err)
	}

	observe := m.attemptObserver(log, rec.ID, scope, provider, modelID)
	resp, res, err := retry.DoObserved(ctx, m.retryConfig, observe, func(ctx context.Context) (*ai.Response, error) {
		if m.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.timeout)
			defer cancel()
		}
		return gen.Generate(ctx, req)
	})

	if err != nil {
		return "", m.fail(rec, scope, res.Attempts, time.Since(start), err)
	}

	m.succeed(rec, resp, res.Attempts, time.Since(start))
	emit(m.events, Event{
		Type:      EventRequestComplete,
		RequestID: rec.ID,
		Scope:     scope,
		Provider:  provider,
		Model:     modelID,
		Duration:  time.Since(start),
		Usage:     &resp.Usage,
	})
	return resp.Content, nil
}

// attemptObserver logs each provider attempt and republishes it as an
// EventAttempt.
func (m *Manager) attemptObserver(log logger.Logger, id string, scope Scope, p ai.Provider, modelID string) retry.Observer {
	return func(a retry.Attempt) {
		switch a.Outcome {
		case retry.WillRetry:
			log.Warn("llm attempt failed, retrying", "attempt", a.Number, "max_attempts", a.Limit, "wait", a.Wait, "error", a.Err)
		case retry.GaveUp:
			if a.Number > 1 {
				log.Warn("llm attempt failed, not retryable", "attempt", a.Number, "error", a.Err)
			}
		case retry.Exhausted:
			if a.Limit > 1 {
				log.Error("llm retries exhausted", "attempts", a.Number, "error", a.Err)
			}
		}
		emit(m.events, Event{Type: EventAttempt, RequestID: id, Scope: scope, Provider: p, Model: modelID, Duration: a.Elapsed, Error: a.Err, Attempt: &a})
	}
}

func (m *Manager) begin(scope Scope, prompt string, p ai.Provider, modelID string) *Request {
	r := &Request{
		ID:         uuid.NewString(),
		Prompt:     prompt,
		Provider:   p,
		Model:      modelID,
		WorkflowID: scope.WorkflowID,
		StepName:   scope.StepName,
		Timestamp:  m.now(),
		Status:     StatusPending,
	}
	m.mu.Lock()
	m.history = append(m.history, r)
	m.mu.Unlock()
	return r
}

func (m *Manager) succeed(r *Request, resp *ai.Response, attempts int, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.Status = StatusSuccess
	r.Completion = resp.Content
	r.Attempts = attempts
	r.Duration = d
	r.InputTokens = resp.Usage.InputTokens
	r.OutputTokens = resp.Usage.OutputTokens
	if resp.Usage.Known() {
		cost := m.rates.Cost(string(r.Provider), r.Model, *r.InputTokens, *r.OutputTokens)
		r.Cost = &cost
	}
}

func (m *Manager) fail(r *Request, scope Scope, attempts int, d time.Duration, err error) error {
	m.mu.Lock()
	r.Status = StatusError
	r.Error = err.Error()
	r.Attempts = attempts
	r.Duration = d
	m.mu.Unlock()

	emit(m.events, Event{Type: EventRequestError, RequestID: r.ID, Scope: scope, Provider: r.Provider, Model: r.Model, Duration: d, Error: err})
	return &RequestError{Provider: r.Provider, Model: r.Model, Attempts: attempts, Err: err}
}

// History returns a copy of every request recorded so far, oldest first.
func (m *Manager) History() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.history))
	for i, r := range m.history {
		out[i] = *r
	}
	return out
}

// UsageReport summarizes the history matching filter.
func (m *Manager) UsageReport(filter Filter) UsageReport {
	return BuildUsageReport(m.History(), filter)
}

// Rates returns the resolved rate table.
func (m *Manager) Rates() *model.RateTable { return m.rates }
