package lessonflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	t.Run("returns empty options when no options provided", func(t *testing.T) {
		opts := ApplyOptions()
		require.NotNil(t, opts)
		assert.Zero(t, opts.MaxTokens)
		assert.Nil(t, opts.Temperature)
		assert.Empty(t, opts.System)
	})

	t.Run("applies multiple options", func(t *testing.T) {
		opts := ApplyOptions(
			WithMaxTokens(1000),
			WithTemperature(0.7),
			WithSystem("be brief"),
		)

		assert.Equal(t, 1000, opts.MaxTokens)
		require.NotNil(t, opts.Temperature)
		assert.Equal(t, 0.7, *opts.Temperature)
		assert.Equal(t, "be brief", opts.System)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		opts := ApplyOptions(WithMaxTokens(10), WithMaxTokens(20))
		assert.Equal(t, 20, opts.MaxTokens)
	})

	t.Run("nil options are skipped", func(t *testing.T) {
		opts := ApplyOptions(nil, WithMaxTokens(5))
		assert.Equal(t, 5, opts.MaxTokens)
	})
}
