package retry

import (
	"context"
	"errors"
	"time"

	"github.com/spetersoncode/lessonflow"
)

// retryAfterFromError extracts the RetryAfter duration from a CategorizedError.
// Returns 0 if the error doesn't implement CategorizedError or has no RetryAfter.
func retryAfterFromError(err error) time.Duration {
	var ce lessonflow.CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}

// effectiveDelay returns the delay to use, honoring server's Retry-After if larger.
func effectiveDelay(configuredDelay time.Duration, err error) time.Duration {
	serverDelay := retryAfterFromError(err)
	if serverDelay > configuredDelay {
		return serverDelay
	}
	return configuredDelay
}

// Result reports how a retried call ended.
type Result struct {
	// Attempts is the number of attempts actually made.
	Attempts int
	// Exhausted is true when every allowed attempt failed with a retryable error.
	Exhausted bool
}

// Do executes fn until it succeeds, the error is not retryable, the context
// ends, or the attempts run out. Backoff waits respect ctx.
func Do[T any](ctx context.Context, cfg Config, fn func(ctx context.Context) (T, error)) (T, Result, error) {
	return DoObserved(ctx, cfg, nil, fn)
}

// DoObserved is Do with an Observer told about every attempt. A nil observer
// is allowed.
func DoObserved[T any](ctx context.Context, cfg Config, observe Observer, fn func(ctx context.Context) (T, error)) (T, Result, error) {
	var zero T
	limit := cfg.attempts()
	res := Result{}

	for n := 1; ; n++ {
		res.Attempts = n
		started := time.Now()
		out, err := fn(ctx)
		a := Attempt{Number: n, Limit: limit, Err: err, Elapsed: time.Since(started)}

		switch {
		case err == nil:
			a.Outcome = Succeeded
			observe.notify(a)
			return out, res, nil
		case !cfg.shouldRetry(err) || ctx.Err() != nil:
			a.Outcome = GaveUp
			observe.notify(a)
			return zero, res, err
		case n >= limit:
			a.Outcome = Exhausted
			res.Exhausted = true
			observe.notify(a)
			return zero, res, err
		}

		a.Outcome = WillRetry
		a.Wait = effectiveDelay(cfg.Delay(n-1), err)
		observe.notify(a)

		timer := time.NewTimer(a.Wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, res, ctx.Err()
		case <-timer.C:
		}
	}
}
