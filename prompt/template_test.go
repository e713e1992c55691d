package prompt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"bare name", "Hi {{ name }}", "Hi {{ .name }}"},
		{"no spaces", "Hi {{name}}", "Hi {{.name}}"},
		{"dotted field", "{{ course.title }}", "{{ .course.title }}"},
		{"filter", "{{ name | upper }}", "{{ .name | upper }}"},
		{"function call", "{{ upper name }}", "{{ upper .name }}"},
		{"default with literal", `{{ default "x" name }}`, `{{ default "x" .name }}`},
		{"already dotted", "{{ .name }}", "{{ .name }}"},
		{"keywords", "{{ if ok }}a{{ else }}b{{ end }}", "{{ if .ok }}a{{ else }}b{{ end }}"},
		{"range with variables", "{{ range $i, $v := items }}{{ $v }}{{ end }}", "{{ range $i, $v := .items }}{{ $v }}{{ end }}"},
		{"trim markers", "{{- name -}}", "{{- .name -}}"},
		{"comment untouched", "{{/* note */}}", "{{/* note */}}"},
		{"function name used as variable", "{{ title }}", "{{ .title }}"},
		{"function name after pipe", "{{ name | title }}", "{{ .name | title }}"},
		{"zero arg function", "{{ now }}", "{{ now }}"},
		{"string literal untouched", `{{ printf "%s name" name }}`, `{{ printf "%s name" .name }}`},
		{"numbers untouched", "{{ add count 1 }}", "{{ add .count 1 }}"},
		{"no actions", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalize(tt.source))
		})
	}
}

func TestCompileVariables(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []string
	}{
		{"simple", "Hi {{a}} {{b}}", []string{"a", "b"}},
		{"duplicates collapse", "{{ a }} {{ a }}", []string{"a"}},
		{"sorted", "{{ zeta }} {{ alpha }}", []string{"alpha", "zeta"}},
		{"nested field counts root", "{{ course.title }}", []string{"course"}},
		{"filters and funcs", "{{ topic | upper }} {{ default \"x\" audience }}", []string{"audience", "topic"}},
		{"if condition and bodies", "{{ if show }}{{ a }}{{ else }}{{ b }}{{ end }}", []string{"a", "b", "show"}},
		{"range body is scoped", "{{ range items }}{{ name }}{{ end }}", []string{"items"}},
		{"dollar root inside range", "{{ range items }}{{ $.topic }}{{ end }}", []string{"items", "topic"}},
		{"with body is scoped", "{{ with course }}{{ title }}{{ end }}", []string{"course"}},
		{"no variables", "static", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Compile(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tmpl.Variables())
		})
	}
}

func TestCompileInvalid(t *testing.T) {
	_, err := Compile("{{ if a }}unterminated")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	t.Run("renders bare and Go syntax", func(t *testing.T) {
		out, err := Render("Hi {{ name }} from {{ .place | upper }}", map[string]any{
			"name":  "Ada",
			"place": "london",
		})
		require.NoError(t, err)
		assert.Equal(t, "Hi Ada from LONDON", out)
	})

	t.Run("renders nested maps", func(t *testing.T) {
		out, err := Render("{{ course.title }}", map[string]any{
			"course": map[string]any{"title": "Algebra"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Algebra", out)
	})

	t.Run("renders ranges", func(t *testing.T) {
		out, err := Render("{{ range items }}[{{ . }}]{{ end }}", map[string]any{
			"items": []string{"a", "b"},
		})
		require.NoError(t, err)
		assert.Equal(t, "[a][b]", out)
	})

	t.Run("reports every missing variable", func(t *testing.T) {
		_, err := Render("Hi {{a}} {{b}}", map[string]any{})

		var missing *MissingVariableError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{"a", "b"}, missing.Names)
		assert.Contains(t, err.Error(), "a, b")
	})

	t.Run("reports only absent variables", func(t *testing.T) {
		_, err := Render("Hi {{a}} {{b}}", map[string]any{"a": 1})

		var missing *MissingVariableError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{"b"}, missing.Names)
	})

	t.Run("missing nested key fails at execution", func(t *testing.T) {
		_, err := Render("{{ course.title }}", map[string]any{"course": map[string]any{}})
		assert.Error(t, err)
	})
}

func TestPreview(t *testing.T) {
	tmpl, err := Compile("Write about {{ topic }} for {{ audience }}.")
	require.NoError(t, err)

	t.Run("fills unspecified variables", func(t *testing.T) {
		out := tmpl.Preview(map[string]any{"topic": "fractions"})
		assert.Equal(t, "Write about fractions for <audience>.", out)
	})

	t.Run("falls back to source on execution error", func(t *testing.T) {
		nested := MustCompile("{{ course.title }}")
		assert.Equal(t, "{{ course.title }}", nested.Preview(nil))
	})
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("{{ end }}") })
}
