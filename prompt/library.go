package prompt

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Entry is a named template in a Library.
type Entry struct {
	Name        string
	Description string
	Template    *Template
}

// Library is a named registry of compiled templates.
type Library struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{entries: make(map[string]*Entry)}
}

// DefaultLibrary returns a library preloaded with the built-in course templates.
func DefaultLibrary() *Library {
	lib := NewLibrary()
	for _, b := range builtins {
		if err := lib.Register(b.name, b.description, b.source, b.variables...); err != nil {
			panic(fmt.Sprintf("built-in template %s: %v", b.name, err))
		}
	}
	return lib
}

// Register compiles source and adds it under name. The declared variables
// must match the variables the template references exactly.
func (l *Library) Register(name, description, source string, declared ...string) error {
	tmpl, err := Compile(source)
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	want := slices.Clone(declared)
	slices.Sort(want)
	want = slices.Compact(want)
	if got := tmpl.Variables(); !slices.Equal(want, got) {
		return fmt.Errorf("register %s: %w: declared %v, template uses %v", name, ErrContractMismatch, want, got)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[name] = &Entry{Name: name, Description: description, Template: tmpl}
	return nil
}

// Get returns the named entry.
func (l *Library) Get(name string) (*Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[name]
	if !ok {
		return nil, &UnknownTemplateError{Name: name, Known: slices.Sorted(maps.Keys(l.entries))}
	}
	return e, nil
}

// Names returns the registered names, sorted.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Sorted(maps.Keys(l.entries))
}

// Render renders the named template.
func (l *Library) Render(name string, vars map[string]any) (string, error) {
	e, err := l.Get(name)
	if err != nil {
		return "", err
	}
	return e.Template.Render(vars)
}
