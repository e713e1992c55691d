package llm

import (
	"time"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/internal/retry"
)

// EventType identifies the kind of event occurring during manager operations.
type EventType string

const (
	// EventRequestStart fires before a request begins.
	EventRequestStart EventType = "request_start"

	// EventRequestComplete fires after a request completes successfully.
	EventRequestComplete EventType = "request_complete"

	// EventRequestError fires when a request fails for good.
	EventRequestError EventType = "request_error"

	// EventAttempt fires after each provider attempt, including the last.
	EventAttempt EventType = "attempt"
)

// Event represents an observable occurrence during manager operations.
type Event struct {
	Type      EventType
	RequestID string
	Scope     Scope
	Provider  ai.Provider
	Model     string

	// Duration is the elapsed time for finished requests.
	Duration time.Duration

	Usage *ai.Usage
	Error error

	// Attempt is set for EventAttempt.
	Attempt *retry.Attempt

	Timestamp time.Time
}

// emit sends an event with timestamp to the channel without blocking.
func emit(ch chan<- Event, event Event) {
	if ch == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case ch <- event:
	default:
		// Channel full - don't block
	}
}
