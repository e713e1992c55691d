package retry

import "time"

// Outcome says how a single attempt ended.
type Outcome int

const (
	// Succeeded means the attempt returned without error.
	Succeeded Outcome = iota
	// WillRetry means the attempt failed and another follows after Attempt.Wait.
	WillRetry
	// GaveUp means the error was not retryable or the context ended.
	GaveUp
	// Exhausted means the last allowed attempt failed.
	Exhausted
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case WillRetry:
		return "will_retry"
	case GaveUp:
		return "gave_up"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// Attempt describes one finished try of a retried call.
type Attempt struct {
	Number  int
	Limit   int
	Outcome Outcome
	Err     error

	// Wait is the pause before the next attempt, after any server hint.
	Wait time.Duration

	// Elapsed covers the call only, not the wait.
	Elapsed time.Duration
}

// Final reports whether no further attempt follows this one.
func (a Attempt) Final() bool { return a.Outcome != WillRetry }

// Observer is called synchronously after every attempt and must return quickly.
type Observer func(Attempt)

func (o Observer) notify(a Attempt) {
	if o != nil {
		o(a)
	}
}
