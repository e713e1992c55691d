package prompt

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"text/template"
)

// Template is a compiled prompt template together with the variables it needs.
type Template struct {
	source   string
	tmpl     *template.Template
	required []string
}

// Compile parses source and extracts the set of variables it references.
// Bare names like {{ topic }} are accepted alongside Go template syntax.
func Compile(source string) (*Template, error) {
	normalized := normalize(source)
	tmpl, err := template.New("prompt").
		Option("missingkey=error").
		Funcs(funcMap()).
		Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Template{
		source:   source,
		tmpl:     tmpl,
		required: requiredVariables(tmpl.Tree),
	}, nil
}

// MustCompile is like Compile but panics on error. For built-in templates.
func MustCompile(source string) *Template {
	t, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return t
}

// Source returns the template text as written.
func (t *Template) Source() string { return t.source }

// Variables returns the sorted names the template requires.
func (t *Template) Variables() []string { return slices.Clone(t.required) }

// Missing returns the required variables absent from vars.
func (t *Template) Missing(vars map[string]any) []string {
	var missing []string
	for _, name := range t.required {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Render executes the template. Every missing variable is reported at once
// before execution starts.
func (t *Template) Render(vars map[string]any) (string, error) {
	if missing := t.Missing(vars); len(missing) > 0 {
		return "", &MissingVariableError{Names: missing}
	}
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return buf.String(), nil
}

// Preview renders with sample values, filling anything unspecified with
// "<name>". It never fails; on execution errors the raw source is returned.
func (t *Template) Preview(sample map[string]any) string {
	vars := make(map[string]any, len(t.required)+len(sample))
	maps.Copy(vars, sample)
	for _, name := range t.required {
		if _, ok := vars[name]; !ok {
			vars[name] = "<" + name + ">"
		}
	}
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, vars); err != nil {
		return t.source
	}
	return buf.String()
}

// Render compiles and renders source in one call.
func Render(source string, vars map[string]any) (string, error) {
	t, err := Compile(source)
	if err != nil {
		return "", err
	}
	return t.Render(vars)
}
