package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Extensions tried, in order, when a prompt path has none.
var Extensions = []string{".md", ".txt", ".tmpl"}

// Metadata is the optional YAML front matter of a prompt file.
type Metadata struct {
	Description string   `yaml:"description" json:"description,omitempty"`
	Requires    []string `yaml:"requires" json:"requires,omitempty"`
	Tags        []string `yaml:"tags" json:"tags,omitempty"`
	Model       string   `yaml:"model" json:"model,omitempty"`
}

// Prompt is a prompt file loaded from the registry.
type Prompt struct {
	Path     string
	Content  string
	Metadata Metadata
}

// Compile compiles the prompt body.
func (p *Prompt) Compile() (*Template, error) {
	t, err := Compile(p.Content)
	if err != nil {
		return nil, fmt.Errorf("prompt %s: %w", p.Path, err)
	}
	return t, nil
}

// HasTag reports whether the prompt carries tag.
func (p *Prompt) HasTag(tag string) bool {
	return slices.Contains(p.Metadata.Tags, tag)
}

// Registry loads prompt files from a directory tree.
type Registry struct {
	fs    afero.Fs
	mu    sync.RWMutex
	cache map[string]*Prompt
}

// NewRegistry serves prompts from root on the OS filesystem.
func NewRegistry(root string) *Registry {
	return NewRegistryFs(afero.NewBasePathFs(afero.NewOsFs(), root))
}

// NewRegistryFs serves prompts from the root of fsys.
func NewRegistryFs(fsys afero.Fs) *Registry {
	return &Registry{fs: fsys, cache: make(map[string]*Prompt)}
}

// GetPrompt loads the prompt at p, a slash-separated path relative to the
// registry root. The extension may be omitted.
func (r *Registry) GetPrompt(p string) (*Prompt, error) {
	key := path.Clean(strings.TrimPrefix(p, "/"))

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	candidates := []string{key}
	if path.Ext(key) == "" {
		for _, ext := range Extensions {
			candidates = append(candidates, key+ext)
		}
	}

	for _, candidate := range candidates {
		data, err := afero.ReadFile(r.fs, candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read prompt %s: %w", p, err)
		}
		prompt, err := parsePrompt(key, data)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[key] = prompt
		r.mu.Unlock()
		return prompt, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPromptNotFound, p)
}

// List returns every prompt in the registry, optionally filtered by tag,
// sorted by path.
func (r *Registry) List(tag string) ([]*Prompt, error) {
	iofs := afero.NewIOFS(r.fs)
	var matches []string
	for _, ext := range Extensions {
		found, err := doublestar.Glob(iofs, "**/*"+ext)
		if err != nil {
			return nil, fmt.Errorf("list prompts: %w", err)
		}
		matches = append(matches, found...)
	}
	slices.Sort(matches)

	prompts := make([]*Prompt, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		trimmed := strings.TrimSuffix(m, path.Ext(m))
		if seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		p, err := r.GetPrompt(trimmed)
		if err != nil {
			return nil, err
		}
		if tag == "" || p.HasTag(tag) {
			prompts = append(prompts, p)
		}
	}
	return prompts, nil
}

var frontMatterDelim = []byte("---")

// parsePrompt splits optional YAML front matter from the body.
func parsePrompt(key string, data []byte) (*Prompt, error) {
	p := &Prompt{Path: key}
	normalized := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(normalized, append(slices.Clone(frontMatterDelim), '\n')) {
		p.Content = string(normalized)
		return p, nil
	}

	rest := normalized[len(frontMatterDelim)+1:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, fmt.Errorf("prompt %s: unterminated front matter", key)
	}
	if err := yaml.Unmarshal(rest[:end], &p.Metadata); err != nil {
		return nil, fmt.Errorf("prompt %s: parse front matter: %w", key, err)
	}

	body := rest[end+len("\n---"):]
	body = bytes.TrimPrefix(body, []byte("\n"))
	p.Content = string(body)
	return p, nil
}
