package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T, files map[string]string) *Catalog {
	t.Helper()
	mem := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(mem, "/workflows/"+name, []byte(content), 0o644))
	}
	return NewCatalogFs(afero.NewBasePathFs(mem, "/workflows"))
}


func TestCatalogList(t *testing.T) {
	cat := newTestCatalog(t, map[string]string{
		"outline.yaml":     "name: course_outline\ndescription: Outline\nsteps:\n  - {name: a, type: prompt, prompt: p, output_variable: o}\n",
		"nested/quiz.yml":  "name: quiz\nsteps:\n  - {name: a, type: prompt, prompt: p, output_variable: o}\n",
		"broken.json":      `{"name": "broken", "steps": []}`,
		"notes/readme.txt": "ignored",
	})

	entries, err := cat.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "broken", entries[0].Name)
	assert.Error(t, entries[0].Err)
	assert.Equal(t, "course_outline", entries[1].Name)
	assert.Equal(t, "Outline", entries[1].Description)
	assert.Equal(t, "outline.yaml", entries[1].Path)
	assert.Equal(t, "quiz", entries[2].Name)
	assert.NoError(t, entries[2].Err)
}

func TestCatalogGet(t *testing.T) {
	cat := newTestCatalog(t, map[string]string{
		"outline.yaml": "name: course_outline\nsteps:\n  - {name: a, type: prompt, prompt: p, output_variable: o}\n",
	})

	t.Run("by declared name", func(t *testing.T) {
		w, err := cat.Get("course_outline")
		require.NoError(t, err)
		assert.Equal(t, "course_outline", w.Name)
	})

	t.Run("by file stem", func(t *testing.T) {
		w, err := cat.Get("outline")
		require.NoError(t, err)
		assert.Equal(t, "course_outline", w.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := cat.Get("missing")
		assert.ErrorIs(t, err, ErrWorkflowNotFound)
	})
}

func TestBundledWorkflowsLoad(t *testing.T) {
	entries, err := NewCatalog("../workflows").List()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.NoError(t, e.Err, e.Path)
	}
}
