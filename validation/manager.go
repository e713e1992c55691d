// Package validation provides the default content validators and remediators
// used by validation and remediation steps.
package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownValidator is returned when a step names a validator that is not registered.
var ErrUnknownValidator = errors.New("unknown validator")

// Manager runs named validators against content.
type Manager struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

// NewManager returns a Manager with the built-in validators registered.
func NewManager() *Manager {
	return &Manager{validators: defaultValidators()}
}

// Register adds or replaces a validator.
func (m *Manager) Register(name string, v Validator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validators[name] = v
}

// Names returns the registered validator names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.validators))
}

// Validate runs each named validator in order and concatenates their issues.
// A name may carry an argument after a colon, e.g. "min_words:200".
func (m *Manager) Validate(ctx context.Context, content any, names []string, vars map[string]any) ([]Issue, error) {
	issues := []Issue{}
	for _, ref := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, arg, _ := strings.Cut(ref, ":")
		m.mu.RLock()
		v, ok := m.validators[name]
		m.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownValidator, name)
		}
		found, err := v.Validate(ctx, content, arg, vars)
		if err != nil {
			return nil, fmt.Errorf("validator %s: %w", name, err)
		}
		issues = append(issues, found...)
	}
	return issues, nil
}

func jsonText(content any) (string, error) {
	switch v := content.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case []byte:
		return strings.TrimSpace(string(v)), nil
	}
	data, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("encode content: %w", err)
	}
	return string(data), nil
}
