// Package transform turns raw model completions into structured step outputs.
package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/spetersoncode/lessonflow/config"
	"github.com/tidwall/gjson"
)

var (
	// ErrUnknownRule is returned for a transformation rule that is not registered.
	ErrUnknownRule = errors.New("unknown transformation rule")
	// ErrUnknownFormat is returned for an output format the transformer does not handle.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrInvalidJSON is returned when json output contains no parseable JSON.
	ErrInvalidJSON = errors.New("output is not valid JSON")
)

var listMarker = regexp.MustCompile(`^\s*(?:[-*+•]|\d+[.)]|[a-zA-Z][.)])\s+`)

// Transformer applies transformation rules and output formats.
type Transformer struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// New returns a Transformer with the built-in rules registered.
func New() *Transformer {
	return &Transformer{rules: defaultRules()}
}

// Register adds or replaces a named rule.
func (t *Transformer) Register(name string, rule Rule) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules[name] = rule
}

// Rules returns the registered rule names, sorted.
func (t *Transformer) Rules() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.rules))
}

// Transform applies rules in order, then converts the text per format:
// raw yields a trimmed string, json a decoded value, list a []string and
// html an HTML string.
func (t *Transformer) Transform(raw string, format config.OutputFormat, rules []string) (any, error) {
	text, err := t.applyRules(raw, rules)
	if err != nil {
		return nil, err
	}

	switch format {
	case config.FormatRaw, "":
		return strings.TrimSpace(text), nil
	case config.FormatJSON:
		return ParseJSON(text)
	case config.FormatList:
		return ParseList(text), nil
	case config.FormatHTML:
		return MarkdownToHTML(text), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

func (t *Transformer) applyRules(text string, names []string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, name := range names {
		rule, ok := t.rules[name]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownRule, name)
		}
		text = rule(text)
	}
	return text, nil
}

// ParseJSON decodes the JSON in text. Code fences and surrounding prose are
// tolerated: the first balanced object or array is used.
func ParseJSON(text string) (any, error) {
	candidate := strings.TrimSpace(StripCodeFences(strings.TrimSpace(text)))
	if !gjson.Valid(candidate) {
		candidate = extractJSON(candidate)
		if candidate == "" || !gjson.Valid(candidate) {
			return nil, ErrInvalidJSON
		}
	}
	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return v, nil
}

// extractJSON returns the first balanced object or array in s that is valid JSON.
func extractJSON(s string) string {
	for start := 0; start < len(s); start++ {
		if s[start] != '{' && s[start] != '[' {
			continue
		}
		end := balancedEnd(s, start)
		if end < 0 {
			continue
		}
		if candidate := s[start : end+1]; gjson.Valid(candidate) {
			return candidate
		}
	}
	return ""
}

// balancedEnd returns the index closing the bracket opened at start, skipping
// brackets inside JSON strings, or -1.
func balancedEnd(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ParseList splits text into items, dropping bullet and number markers and
// blank lines. A JSON array of strings is accepted as well.
func ParseList(text string) []string {
	trimmed := strings.TrimSpace(StripCodeFences(strings.TrimSpace(text)))
	if strings.HasPrefix(trimmed, "[") && gjson.Valid(trimmed) {
		var items []string
		for _, r := range gjson.Parse(trimmed).Array() {
			if s := strings.TrimSpace(r.String()); s != "" {
				items = append(items, s)
			}
		}
		return items
	}

	items := []string{}
	for _, line := range strings.Split(NormalizeNewlines(trimmed), "\n") {
		item := strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// MarkdownToHTML renders Markdown to HTML. Text that already starts with a
// tag is returned unchanged.
func MarkdownToHTML(text string) string {
	trimmed := strings.TrimSpace(StripCodeFences(strings.TrimSpace(text)))
	if strings.HasPrefix(trimmed, "<") {
		return trimmed
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(trimmed), p, r))
}
