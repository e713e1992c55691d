// Package retry provides retry logic with exponential backoff for LLM calls.
package retry

import (
	"math"
	"math/rand/v2"
	"time"
)

// Config holds retry configuration parameters.
// It is the retry policy injected into the LLM manager.
type Config struct {
	// MaxAttempts is the maximum number of attempts (default: 3).
	// The initial request counts as attempt 1.
	MaxAttempts int `mapstructure:"max_attempts" json:"maxAttempts" validate:"min=1"`

	// InitialDelay is the base delay before the first retry (default: 1s).
	InitialDelay time.Duration `mapstructure:"initial_delay" json:"initialDelay"`

	// MaxDelay caps the exponential curve (default: 30s).
	MaxDelay time.Duration `mapstructure:"max_delay" json:"maxDelay"`

	// Multiplier is the exponential backoff multiplier (default: 2.0).
	Multiplier float64 `mapstructure:"multiplier" json:"multiplier" validate:"gte=1"`

	// Jitter adds proportional randomness: delay * (1 + random(-jitter, +jitter)).
	// Ignored when FullJitter is set.
	Jitter float64 `mapstructure:"jitter" json:"jitter" validate:"gte=0,lte=1"`

	// FullJitter draws the delay uniformly from [0, capped exponential delay].
	FullJitter bool `mapstructure:"full_jitter" json:"fullJitter"`

	// RetryIf decides whether an error is worth another attempt.
	// Nil means RetryUnlessPermanent.
	RetryIf func(error) bool `mapstructure:"-" json:"-"`
}

// DefaultConfig returns the default retry configuration.
//   - 3 max attempts
//   - 1 second initial delay
//   - 30 second max delay
//   - 2x exponential multiplier
//   - full jitter
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		FullJitter:   true,
	}
}

// Disabled returns a configuration that disables retries (single attempt).
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay calculates the delay for a given attempt number (0-indexed).
// Formula: min(maxDelay, initialDelay * multiplier^attempt), then jittered.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	switch {
	case c.FullJitter:
		delay = rand.Float64() * delay
	case c.Jitter > 0:
		delay *= 1.0 + (rand.Float64()*2-1)*c.Jitter
	}

	return time.Duration(delay)
}

func (c Config) shouldRetry(err error) bool {
	if c.RetryIf != nil {
		return c.RetryIf(err)
	}
	return RetryUnlessPermanent(err)
}

func (c Config) attempts() int {
	if c.MaxAttempts < 1 {
		return 1
	}
	return c.MaxAttempts
}
