package probe

import (
	"context"

	"github.com/google/uuid"

	"github.com/pingmon/pingmon/internal/logging"
	"github.com/pingmon/pingmon/internal/measure"
)

// Coordinator dispatches asynchronous sampling tasks for one target host,
// bounding outstanding work to a single task and discarding results whose
// generation no longer matches. See the package documentation for the
// threading contract.
type Coordinator struct {
	host string
	op   SampleFunc

	generation  uint64
	inFlight    bool
	pendingTask string

	history *measure.History
	stats   *measure.HostStats

	deliveries chan<- Delivery
	baseLog    *logging.Logger
	log        *logging.Logger
}

// New creates a Coordinator for host. Completed tasks are handed back on
// deliveries, which may be shared between coordinators; the receiver is
// responsible for routing each Delivery to Deliver on the control
// goroutine. historyLimit bounds the per-host history (0 for the default).
func New(host string, op SampleFunc, deliveries chan<- Delivery, historyLimit int, log *logging.Logger) *Coordinator {
	if log == nil {
		log = logging.NopLogger()
	}
	base := log.WithComponent("probe")
	return &Coordinator{
		host:       host,
		op:         op,
		history:    measure.NewHistory(historyLimit),
		stats:      measure.NewHostStats(),
		deliveries: deliveries,
		baseLog:    base,
		log:        base.WithHost(host),
	}
}

// Host returns the current target host.
func (c *Coordinator) Host() string {
	return c.host
}

// Generation returns the current generation.
func (c *Coordinator) Generation() uint64 {
	return c.generation
}

// InFlight reports whether a task is outstanding.
func (c *Coordinator) InFlight() bool {
	return c.inFlight
}

// PendingTask returns the task ID of the outstanding dispatch, or the
// empty string when the gate is free. Routers delivering on behalf of
// several coordinators use it to tell this coordinator's completions
// apart from those of a predecessor that watched the same host.
func (c *Coordinator) PendingTask() string {
	return c.pendingTask
}

// History returns the per-host history of accepted measurements.
func (c *Coordinator) History() *measure.History {
	return c.history
}

// Stats returns the rolling statistics over accepted measurements.
func (c *Coordinator) Stats() *measure.HostStats {
	return c.stats
}

// Attempt admits at most one sampling task. If a task is already
// outstanding it returns AttemptSkipped with no side effects. Otherwise it
// captures the current generation in an Envelope, marks the gate occupied,
// runs the sampling operation on its own goroutine, and returns
// AttemptDispatched immediately. The completed task is sent on the delivery
// channel regardless of success or failure.
func (c *Coordinator) Attempt(ctx context.Context) AttemptOutcome {
	if c.inFlight {
		return AttemptSkipped
	}
	c.inFlight = true

	env := Envelope{
		Generation: c.generation,
		Host:       c.host,
		TaskID:     uuid.NewString(),
	}
	c.pendingTask = env.TaskID
	c.log.Debug("task dispatched", "task_id", env.TaskID, "generation", env.Generation)

	go func() {
		sample, err := c.op(ctx, env.Host)
		c.deliveries <- Delivery{Envelope: env, Sample: sample, Err: err}
	}()

	return AttemptDispatched
}

// Deliver validates and applies a completed task. The admission gate is
// released first, unconditionally, so a discarded result can never block a
// later Attempt. The result is then applied only if the envelope generation
// still matches the current one; otherwise it is discarded silently.
// Deliver must run to completion on the control goroutine before the next
// delivery or mutator call, which the single-goroutine contract guarantees.
func (c *Coordinator) Deliver(d Delivery) DeliveryStatus {
	c.inFlight = false
	c.pendingTask = ""

	if d.Envelope.Generation != c.generation {
		c.log.Debug("stale delivery discarded",
			"task_id", d.Envelope.TaskID,
			"task_generation", d.Envelope.Generation,
			"generation", c.generation)
		return DeliveryStale
	}

	if d.Err != nil {
		c.log.Warn("sampling failed", "task_id", d.Envelope.TaskID, "error", d.Err.Error())
		return DeliveryFailed
	}

	sample := d.Sample
	sample.Normalize()
	c.history.Append(sample)
	c.stats.Observe(sample)
	return DeliveryApplied
}

// Stop invalidates in-flight work. The history stays visible; only future
// deliveries of already-dispatched tasks are discarded.
func (c *Coordinator) Stop() {
	c.generation++
	c.log.Debug("stopped", "generation", c.generation)
}

// Clear invalidates in-flight work and empties the history and statistics.
func (c *Coordinator) Clear() {
	c.generation++
	c.history.Clear()
	c.stats.Reset()
	c.log.Debug("cleared", "generation", c.generation)
}

// Reconfigure switches the target host and invalidates in-flight work.
// A sample in flight for the previous host is discarded entirely on
// delivery; it is not recorded under either host.
func (c *Coordinator) Reconfigure(host string) {
	c.generation++
	c.host = host
	c.log = c.baseLog.WithHost(host)
	c.log.Debug("reconfigured", "generation", c.generation)
}
