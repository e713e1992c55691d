package engine

import (
	"context"
)

// Engine runs workflows from a catalog against a session store.
type Engine struct {
	deps     Deps
	sessions SessionStore
	catalog  Catalog
	opts     []Option
}

// New creates an engine. When deps.Output is nil and sessions can write
// output files, the session store is used as the output writer.
func New(deps Deps, sessions SessionStore, catalog Catalog, opts ...Option) *Engine {
	if deps.Output == nil {
		if w, ok := sessions.(OutputWriter); ok {
			deps.Output = w
		}
	}
	return &Engine{deps: deps, sessions: sessions, catalog: catalog, opts: opts}
}

// Execute loads the named workflow and starts a run. Invalid workflow
// documents fail before any session is created.
func (e *Engine) Execute(ctx context.Context, name string, vars map[string]any, sessionID string) (*Result, error) {
	cfg, err := e.catalog.Get(name)
	if err != nil {
		return nil, err
	}
	w, err := NewWorkflow(cfg, e.deps, e.sessions, e.opts...)
	if err != nil {
		return nil, err
	}
	return w.Execute(ctx, vars, sessionID)
}

// Resume continues a session using the workflow document stored with it.
func (e *Engine) Resume(ctx context.Context, sessionID, fromStep string) (*Result, error) {
	cfg, err := e.sessions.LoadConfig(sessionID)
	if err != nil {
		return nil, err
	}
	w, err := NewWorkflow(cfg, e.deps, e.sessions, e.opts...)
	if err != nil {
		return nil, err
	}
	return w.Resume(ctx, sessionID, fromStep)
}
