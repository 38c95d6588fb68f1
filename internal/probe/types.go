package probe

import (
	"context"

	"github.com/pingmon/pingmon/internal/measure"
)

// SampleFunc produces one measurement for a host. It may be slow or
// blocking; it is always invoked off the control goroutine and must not
// touch coordinator state.
type SampleFunc func(ctx context.Context, host string) (measure.Measurement, error)

// Envelope is the immutable record captured at dispatch time. It travels
// with the task to completion and back, unchanged; the dispatcher threads
// it through without interpreting the host.
type Envelope struct {
	// Generation is the coordinator generation at dispatch time.
	Generation uint64
	// Host is the probe target the task was dispatched for.
	Host string
	// TaskID correlates log entries for a single dispatched task.
	TaskID string
}

// Delivery is the one-shot completion message handed back to the control
// goroutine. Exactly one of Sample and Err is meaningful: Err non-nil means
// the sampling operation itself failed.
type Delivery struct {
	Envelope Envelope
	Sample   measure.Measurement
	Err      error
}

// AttemptOutcome reports what Attempt did.
type AttemptOutcome int

const (
	// AttemptSkipped means a task was already outstanding; nothing was
	// dispatched. This is the expected result of overlapping triggers.
	AttemptSkipped AttemptOutcome = iota
	// AttemptDispatched means a task was admitted and is now running.
	AttemptDispatched
)

// String implements fmt.Stringer.
func (o AttemptOutcome) String() string {
	switch o {
	case AttemptSkipped:
		return "skipped"
	case AttemptDispatched:
		return "dispatched"
	default:
		return "unknown"
	}
}

// DeliveryStatus reports how Deliver handled a completed task.
type DeliveryStatus int

const (
	// DeliveryApplied means the sample was accepted into the history.
	DeliveryApplied DeliveryStatus = iota
	// DeliveryFailed means the operation failed and the failure is current;
	// the caller should surface it.
	DeliveryFailed
	// DeliveryStale means the generation moved on while the task was in
	// flight; the result was discarded.
	DeliveryStale
)

// String implements fmt.Stringer.
func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryApplied:
		return "applied"
	case DeliveryFailed:
		return "failed"
	case DeliveryStale:
		return "stale"
	default:
		return "unknown"
	}
}
