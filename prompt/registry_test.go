package prompt

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, files map[string]string) *Registry {
	t.Helper()
	mem := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(mem, "/prompts/"+name, []byte(content), 0o644))
	}
	return NewRegistryFs(afero.NewBasePathFs(mem, "/prompts"))
}

func TestRegistryGetPrompt(t *testing.T) {
	reg := newTestRegistry(t, map[string]string{
		"course/outline.md": "---\ndescription: Course outline\nrequires: [topic, audience]\ntags: [course, structure]\nmodel: fast\n---\nOutline {{ topic }} for {{ audience }}.\n",
		"plain.txt":         "Just {{ text }}",
	})

	t.Run("parses front matter", func(t *testing.T) {
		p, err := reg.GetPrompt("course/outline")
		require.NoError(t, err)

		assert.Equal(t, "course/outline", p.Path)
		assert.Equal(t, "Outline {{ topic }} for {{ audience }}.\n", p.Content)
		assert.Equal(t, "Course outline", p.Metadata.Description)
		assert.Equal(t, []string{"topic", "audience"}, p.Metadata.Requires)
		assert.Equal(t, "fast", p.Metadata.Model)
		assert.True(t, p.HasTag("course"))
	})

	t.Run("file without front matter", func(t *testing.T) {
		p, err := reg.GetPrompt("plain")
		require.NoError(t, err)
		assert.Equal(t, "Just {{ text }}", p.Content)
		assert.Empty(t, p.Metadata.Requires)
	})

	t.Run("explicit extension", func(t *testing.T) {
		p, err := reg.GetPrompt("plain.txt")
		require.NoError(t, err)
		assert.Equal(t, "Just {{ text }}", p.Content)
	})

	t.Run("compiles body", func(t *testing.T) {
		p, err := reg.GetPrompt("course/outline")
		require.NoError(t, err)
		tmpl, err := p.Compile()
		require.NoError(t, err)
		assert.Equal(t, []string{"audience", "topic"}, tmpl.Variables())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := reg.GetPrompt("nope")
		assert.ErrorIs(t, err, ErrPromptNotFound)
		assert.Contains(t, err.Error(), "nope")
	})
}

func TestRegistryFrontMatterErrors(t *testing.T) {
	reg := newTestRegistry(t, map[string]string{
		"open.md": "---\ndescription: never closed\n",
		"bad.md":  "---\ntags: [unclosed\n---\nbody",
	})

	_, err := reg.GetPrompt("open")
	assert.ErrorContains(t, err, "unterminated front matter")

	_, err = reg.GetPrompt("bad")
	assert.ErrorContains(t, err, "front matter")
}

func TestRegistryList(t *testing.T) {
	reg := newTestRegistry(t, map[string]string{
		"b.md":          "---\ntags: [quiz]\n---\nB",
		"a.txt":         "A",
		"nested/c.tmpl": "---\ntags: [quiz, course]\n---\nC",
		"ignored.json":  "{}",
	})

	t.Run("all prompts sorted by path", func(t *testing.T) {
		prompts, err := reg.List("")
		require.NoError(t, err)

		var paths []string
		for _, p := range prompts {
			paths = append(paths, p.Path)
		}
		assert.Equal(t, []string{"a", "b", "nested/c"}, paths)
	})

	t.Run("filtered by tag", func(t *testing.T) {
		prompts, err := reg.List("course")
		require.NoError(t, err)
		require.Len(t, prompts, 1)
		assert.Equal(t, "nested/c", prompts[0].Path)
	})
}

func TestBundledPrompts(t *testing.T) {
	prompts, err := NewRegistry("../prompts").List("lesson")
	require.NoError(t, err)
	require.NotEmpty(t, prompts)
	for _, p := range prompts {
		_, err := p.Compile()
		assert.NoError(t, err, p.Path)
	}
}
