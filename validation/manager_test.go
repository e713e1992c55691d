package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	tests := []struct {
		name       string
		content    any
		validators []string
		vars       map[string]any
		expected   []string // validators that report issues
	}{
		{"non empty passes", "text", []string{"non_empty"}, nil, nil},
		{"empty string", "  ", []string{"non_empty"}, nil, []string{"non_empty"}},
		{"nil content", nil, []string{"non_empty"}, nil, []string{"non_empty"}},
		{"empty list", []string{}, []string{"non_empty"}, nil, []string{"non_empty"}},
		{"valid json string", `{"a":1}`, []string{"valid_json"}, nil, nil},
		{"decoded json", map[string]any{"a": 1}, []string{"valid_json"}, nil, nil},
		{"invalid json", "{oops", []string{"valid_json"}, nil, []string{"valid_json"}},
		{"min length", "abc", []string{"min_length:5"}, nil, []string{"min_length"}},
		{"max length", "abcdef", []string{"max_length:3"}, nil, []string{"max_length"}},
		{"min words", "one two", []string{"min_words:3"}, nil, []string{"min_words"}},
		{"min items passes", []any{"a", "b"}, []string{"min_items:2"}, nil, nil},
		{"min items fails", []string{"a"}, []string{"min_items:2"}, nil, []string{"min_items"}},
		{"min items on text", "a", []string{"min_items:1"}, nil, []string{"min_items"}},
		{"placeholders", "Intro [insert example here]", []string{"no_placeholders"}, nil, []string{"no_placeholders"}},
		{"headings", "# Title\nbody", []string{"has_headings"}, nil, nil},
		{"no headings", "body", []string{"has_headings"}, nil, []string{"has_headings"}},
		{"mentions topic", "All about Algebra", []string{"mentions:topic"}, map[string]any{"topic": "algebra"}, nil},
		{"does not mention topic", "All about nothing", []string{"mentions:topic"}, map[string]any{"topic": "algebra"}, []string{"mentions"}},
		{"several validators", "", []string{"non_empty", "min_length:1"}, nil, []string{"non_empty", "min_length"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := m.Validate(ctx, tt.content, tt.validators, tt.vars)
			require.NoError(t, err)

			var got []string
			for _, i := range issues {
				got = append(got, i.Validator)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidateRequiredKeys(t *testing.T) {
	m := NewManager()

	issues, err := m.Validate(context.Background(),
		map[string]any{"title": "x", "modules": []any{map[string]any{"title": "m1"}}},
		[]string{"required_keys:title,modules.0.title,summary"}, nil)
	require.NoError(t, err)

	require.Len(t, issues, 1)
	assert.Equal(t, "summary", issues[0].Path)
	assert.True(t, HasErrors(issues))
}

func TestValidateErrors(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	t.Run("unknown validator", func(t *testing.T) {
		_, err := m.Validate(ctx, "x", []string{"spellcheck"}, nil)
		assert.ErrorIs(t, err, ErrUnknownValidator)
	})

	t.Run("bad argument", func(t *testing.T) {
		_, err := m.Validate(ctx, "x", []string{"min_length:lots"}, nil)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := m.Validate(cctx, "x", []string{"non_empty"}, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("custom validator errors are wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		m.Register("explode", ValidatorFunc(func(context.Context, any, string, map[string]any) ([]Issue, error) {
			return nil, boom
		}))
		_, err := m.Validate(ctx, "x", []string{"explode"}, nil)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, m.Names(), "explode")
	})
}

func TestHasErrors(t *testing.T) {
	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors([]Issue{{Severity: SeverityWarning}}))
	assert.True(t, HasErrors([]Issue{{Severity: SeverityWarning}, {Severity: SeverityError}}))
}

func TestIssuesFrom(t *testing.T) {
	t.Run("typed slice", func(t *testing.T) {
		in := []Issue{{Validator: "a"}}
		out, err := IssuesFrom(in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("generic maps from json", func(t *testing.T) {
		out, err := IssuesFrom([]any{
			map[string]any{"validator": "valid_json", "severity": "error", "message": "bad"},
		})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, Issue{Validator: "valid_json", Severity: SeverityError, Message: "bad"}, out[0])
	})

	t.Run("nil", func(t *testing.T) {
		out, err := IssuesFrom(nil)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("wrong shape", func(t *testing.T) {
		_, err := IssuesFrom(42)
		assert.Error(t, err)
	})
}
