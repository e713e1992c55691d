package model

import (
	"testing"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateCost(t *testing.T) {
	rate := Rate{InputPer1K: 0.1, OutputPer1K: 0.2}

	t.Run("per-1K formula", func(t *testing.T) {
		// 1000/1000*0.1 + 500/1000*0.2 = 0.2
		assert.InDelta(t, 0.2, rate.Cost(1000, 500), 1e-9)
	})

	t.Run("returns zero for zero usage", func(t *testing.T) {
		assert.Equal(t, 0.0, rate.Cost(0, 0))
	})
}

func TestChatModel_Cost(t *testing.T) {
	t.Run("calculates cost using model rate", func(t *testing.T) {
		// Claude Sonnet 4.5: $0.003/1K input, $0.015/1K output
		cost := ClaudeSonnet45.Cost(10000, 5000)
		assert.InDelta(t, 0.105, cost, 0.0001)
	})

	t.Run("haiku is cheaper than sonnet", func(t *testing.T) {
		assert.Greater(t, ClaudeSonnet45.Cost(100000, 50000), ClaudeHaiku45.Cost(100000, 50000))
	})

	t.Run("local model is free", func(t *testing.T) {
		assert.Zero(t, LocalEcho.Cost(1000, 1000))
	})
}

func TestLookup(t *testing.T) {
	m, ok := Lookup("gpt-5-mini")
	require.True(t, ok)
	assert.Equal(t, ai.ProviderOpenAI, m.Provider())

	_, ok = Lookup("not-a-model")
	assert.False(t, ok)
}

func TestMergeRates(t *testing.T) {
	builtin := map[string]Rate{
		"a": {InputPer1K: 1, OutputPer1K: 1},
		"b": {InputPer1K: 2, OutputPer1K: 2},
	}
	configured := map[string]Rate{
		"b": {InputPer1K: 9, OutputPer1K: 9},
		"c": {InputPer1K: 3, OutputPer1K: 3},
	}

	merged, err := MergeRates(builtin, configured)
	require.NoError(t, err)

	assert.Equal(t, Rate{InputPer1K: 1, OutputPer1K: 1}, merged["a"])
	assert.Equal(t, Rate{InputPer1K: 9, OutputPer1K: 9}, merged["b"], "configured rate wins")
	assert.Equal(t, Rate{InputPer1K: 3, OutputPer1K: 3}, merged["c"])
	assert.Len(t, configured, 2, "input map is not mutated")
}

func TestRateTableResolve(t *testing.T) {
	table, err := NewRateTable(
		map[string]Rate{"custom-model": {InputPer1K: 0.1, OutputPer1K: 0.2}},
		map[string]Rate{"acme": {InputPer1K: 0.5, OutputPer1K: 0.5}},
	)
	require.NoError(t, err)

	t.Run("model rate", func(t *testing.T) {
		assert.Equal(t, Rate{InputPer1K: 0.1, OutputPer1K: 0.2}, table.Resolve("openai", "custom-model"))
	})

	t.Run("built-in model rate", func(t *testing.T) {
		assert.Equal(t, GPT5Mini.Rate(), table.Resolve("openai", "gpt-5-mini"))
	})

	t.Run("provider fallback", func(t *testing.T) {
		assert.Equal(t, Rate{InputPer1K: 0.5, OutputPer1K: 0.5}, table.Resolve("acme", "unknown"))
		assert.Equal(t, DefaultClaudeModel.Rate(), table.Resolve("anthropic", "claude-next"))
	})

	t.Run("unknown pair costs zero", func(t *testing.T) {
		assert.Equal(t, Rate{}, table.Resolve("nobody", "nothing"))
		assert.Zero(t, table.Cost("nobody", "nothing", 1000, 1000))
	})

	t.Run("nil table costs zero", func(t *testing.T) {
		var nilTable *RateTable
		assert.Zero(t, nilTable.Cost("openai", "gpt-5", 1000, 1000))
	})
}
