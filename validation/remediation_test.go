package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemediate(t *testing.T) {
	m := NewRemediationManager()
	ctx := context.Background()

	t.Run("explicit remediators run in order", func(t *testing.T) {
		r, err := m.Remediate(ctx, "```json\n{\"a\": 1}\n```", nil, Config{
			Remediators: []string{"strip_code_fences", "parse_json"},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": float64(1)}, r.Content)
		assert.Equal(t, []string{"stripped code fences", "parsed JSON"}, r.Actions)
	})

	t.Run("remediators chosen from issues", func(t *testing.T) {
		issues := []Issue{{Validator: "no_placeholders", Severity: SeverityError}}
		r, err := m.Remediate(ctx, "Intro TODO ", issues, Config{})
		require.NoError(t, err)
		assert.Equal(t, "Intro", r.Content)
		assert.Equal(t, []string{"removed placeholder text", "trimmed whitespace"}, r.Actions)
	})

	t.Run("truncate uses options", func(t *testing.T) {
		issues := []Issue{{Validator: "max_length"}}
		r, err := m.Remediate(ctx, "one two three four", issues, Config{
			Options: map[string]any{"max_length": "9", "ellipsis": "..."},
		})
		require.NoError(t, err)
		assert.Equal(t, "one two...", r.Content)
		require.Len(t, r.Actions, 1)
	})

	t.Run("nothing to do leaves content untouched", func(t *testing.T) {
		r, err := m.Remediate(ctx, "clean", nil, Config{})
		require.NoError(t, err)
		assert.Equal(t, "clean", r.Content)
		assert.Empty(t, r.Actions)
	})

	t.Run("non-string content is passed through", func(t *testing.T) {
		r, err := m.Remediate(ctx, []any{"a"}, nil, Config{Remediators: []string{"trim_whitespace"}})
		require.NoError(t, err)
		assert.Equal(t, []any{"a"}, r.Content)
	})

	t.Run("unknown remediator", func(t *testing.T) {
		_, err := m.Remediate(ctx, "x", nil, Config{Remediators: []string{"rewrite"}})
		assert.ErrorIs(t, err, ErrUnknownRemediator)
	})

	t.Run("map form", func(t *testing.T) {
		r := &Remediation{Content: "x", Actions: []string{"a"}}
		assert.Equal(t, map[string]any{"content": "x", "actions": []string{"a"}}, r.Map())
	})
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, []string{"trim_whitespace"}, Suggest(nil))
	assert.Equal(t,
		[]string{"strip_code_fences", "parse_json", "truncate"},
		Suggest([]Issue{{Validator: "valid_json"}, {Validator: "required_keys"}, {Validator: "max_length"}}),
	)
}
