package validation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spetersoncode/lessonflow/transform"
)

// ErrUnknownRemediator is returned when a step names a remediator that is not registered.
var ErrUnknownRemediator = errors.New("unknown remediator")

// Remediator rewrites content. It returns the new content and a description
// of what it did, or "" when it changed nothing.
type Remediator func(ctx context.Context, content any, issues []Issue, opts Options) (any, string, error)

// Options are the typed remediation options decoded from a step's options map.
type Options struct {
	MaxLength int    `mapstructure:"max_length"`
	Ellipsis  string `mapstructure:"ellipsis"`
}

// Config selects remediators and passes their options.
// With no remediators listed, they are chosen from the issues.
type Config struct {
	Remediators []string
	Options     map[string]any
}

// Remediation is the outcome of a remediation run.
type Remediation struct {
	Content any      `json:"content"`
	Actions []string `json:"actions"`
}

// Map returns the remediation as a plain map for storing in a context.
func (r *Remediation) Map() map[string]any {
	return map[string]any{"content": r.Content, "actions": slices.Clone(r.Actions)}
}

// suggested maps validator names to the remediators that address them.
var suggested = map[string][]string{
	"valid_json":      {"strip_code_fences", "parse_json"},
	"required_keys":   {"strip_code_fences", "parse_json"},
	"no_placeholders": {"strip_placeholders", "trim_whitespace"},
	"max_length":      {"truncate"},
	"min_length":      {"trim_whitespace"},
}

// RemediationManager applies named remediators in order.
type RemediationManager struct {
	mu          sync.RWMutex
	remediators map[string]Remediator
}

// NewRemediationManager returns a manager with the built-in remediators registered.
func NewRemediationManager() *RemediationManager {
	return &RemediationManager{remediators: map[string]Remediator{
		"trim_whitespace":      stringRemediator("trimmed whitespace", strings.TrimSpace),
		"strip_code_fences":    stringRemediator("stripped code fences", transform.StripCodeFences),
		"collapse_blank_lines": stringRemediator("collapsed blank lines", transform.CollapseBlankLines),
		"remove_preamble":      stringRemediator("removed preamble", transform.RemovePreamble),
		"strip_placeholders":   stringRemediator("removed placeholder text", stripPlaceholders),
		"parse_json":           parseJSON,
		"truncate":             truncate,
	}}
}

// Register adds or replaces a remediator.
func (m *RemediationManager) Register(name string, r Remediator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remediators[name] = r
}

// Names returns the registered remediator names, sorted.
func (m *RemediationManager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.remediators))
}

// Remediate runs the configured remediators over content.
func (m *RemediationManager) Remediate(ctx context.Context, content any, issues []Issue, cfg Config) (*Remediation, error) {
	var opts Options
	if err := mapstructure.WeakDecode(cfg.Options, &opts); err != nil {
		return nil, fmt.Errorf("decode remediation options: %w", err)
	}

	names := cfg.Remediators
	if len(names) == 0 {
		names = Suggest(issues)
	}

	result := &Remediation{Content: content, Actions: []string{}}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.mu.RLock()
		r, ok := m.remediators[name]
		m.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRemediator, name)
		}
		next, action, err := r(ctx, result.Content, issues, opts)
		if err != nil {
			return nil, fmt.Errorf("remediator %s: %w", name, err)
		}
		if action != "" {
			result.Content = next
			result.Actions = append(result.Actions, action)
		}
	}
	return result, nil
}

// Suggest picks remediators for a set of issues, in first-seen order.
// With nothing specific to do it falls back to trimming whitespace.
func Suggest(issues []Issue) []string {
	var names []string
	for _, i := range issues {
		for _, name := range suggested[i.Validator] {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		names = []string{"trim_whitespace"}
	}
	return names
}

func stringRemediator(action string, fn func(string) string) Remediator {
	return func(_ context.Context, content any, _ []Issue, _ Options) (any, string, error) {
		s, ok := content.(string)
		if !ok {
			return content, "", nil
		}
		out := fn(s)
		if out == s {
			return content, "", nil
		}
		return out, action, nil
	}
}

func stripPlaceholders(s string) string {
	return placeholderPattern.ReplaceAllString(s, "")
}

func parseJSON(_ context.Context, content any, _ []Issue, _ Options) (any, string, error) {
	s, ok := content.(string)
	if !ok {
		return content, "", nil
	}
	v, err := transform.ParseJSON(s)
	if err != nil {
		return content, "", nil
	}
	return v, "parsed JSON", nil
}

func truncate(_ context.Context, content any, _ []Issue, opts Options) (any, string, error) {
	s, ok := content.(string)
	if !ok || opts.MaxLength <= 0 {
		return content, "", nil
	}
	runes := []rune(s)
	if len(runes) <= opts.MaxLength {
		return content, "", nil
	}
	cut := string(runes[:opts.MaxLength])
	if idx := strings.LastIndexAny(cut, " \n\t"); idx > 0 {
		cut = cut[:idx]
	}
	cut = strings.TrimSpace(cut) + opts.Ellipsis
	return cut, fmt.Sprintf("truncated to %d characters", opts.MaxLength), nil
}
