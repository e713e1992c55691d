package engine

import (
	"context"
	"time"
)

// StepResult describes a step that just finished.
type StepResult struct {
	StepName string
	Index    int
	Output   any
	Duration time.Duration
}

// Options contains configuration for workflow execution.
type Options struct {
	// Timeout sets a deadline for the entire run.
	Timeout time.Duration

	// StepTimeout bounds each step. Zero means no limit.
	StepTimeout time.Duration

	// OnStepComplete is called after each successful, persisted step.
	OnStepComplete func(ctx context.Context, result StepResult)
}

// Option is a functional option for workflow configuration.
type Option func(*Options)

// WithTimeout sets the overall run timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithStepTimeout sets the timeout for each step.
func WithStepTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.StepTimeout = d
	}
}

// WithOnStepComplete registers a callback run after each completed step.
func WithOnStepComplete(fn func(ctx context.Context, result StepResult)) Option {
	return func(o *Options) {
		o.OnStepComplete = fn
	}
}

// ApplyOptions applies functional options.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}
