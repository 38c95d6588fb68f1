package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pingmon/pingmon/internal/logging"
	"github.com/pingmon/pingmon/internal/measure"
)

// fixedOp returns a SampleFunc that immediately produces a successful
// sample with the given latency.
func fixedOp(latencyMS float64) SampleFunc {
	return func(ctx context.Context, host string) (measure.Measurement, error) {
		return measure.NewSample(host, latencyMS), nil
	}
}

// failingOp returns a SampleFunc that immediately fails with err.
func failingOp(err error) SampleFunc {
	return func(ctx context.Context, host string) (measure.Measurement, error) {
		return measure.Measurement{}, err
	}
}

// awaitDelivery reads one delivery or fails the test after a timeout.
func awaitDelivery(t *testing.T, ch <-chan Delivery) Delivery {
	t.Helper()
	select {
	case d := <-ch:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return Delivery{}
	}
}

func TestAttempt_SingleFlight(t *testing.T) {
	deliveries := make(chan Delivery, 1)
	block := make(chan struct{})
	op := func(ctx context.Context, host string) (measure.Measurement, error) {
		<-block
		return measure.NewSample(host, 12.5), nil
	}
	c := New("example.com", op, deliveries, 0, logging.NopLogger())

	if got := c.Attempt(context.Background()); got != AttemptDispatched {
		t.Fatalf("first Attempt = %v, want %v", got, AttemptDispatched)
	}

	// Rapid re-attempts while the task is outstanding are all skipped.
	for i := 0; i < 3; i++ {
		if got := c.Attempt(context.Background()); got != AttemptSkipped {
			t.Fatalf("Attempt %d while in flight = %v, want %v", i, got, AttemptSkipped)
		}
	}

	close(block)
	d := awaitDelivery(t, deliveries)
	if status := c.Deliver(d); status != DeliveryApplied {
		t.Fatalf("Deliver = %v, want %v", status, DeliveryApplied)
	}

	// The gate is free again.
	if got := c.Attempt(context.Background()); got != AttemptDispatched {
		t.Fatalf("Attempt after delivery = %v, want %v", got, AttemptDispatched)
	}
}

func TestPendingTask_TracksOutstandingDispatch(t *testing.T) {
	deliveries := make(chan Delivery, 1)
	c := New("example.com", fixedOp(10), deliveries, 0, logging.NopLogger())

	if got := c.PendingTask(); got != "" {
		t.Fatalf("PendingTask before dispatch = %q, want empty", got)
	}

	c.Attempt(context.Background())
	d := awaitDelivery(t, deliveries)
	if got := c.PendingTask(); got != d.Envelope.TaskID {
		t.Errorf("PendingTask = %q, want %q", got, d.Envelope.TaskID)
	}

	c.Deliver(d)
	if got := c.PendingTask(); got != "" {
		t.Errorf("PendingTask after delivery = %q, want empty", got)
	}
}

func TestMutators_AdvanceGenerationByOne(t *testing.T) {
	c := New("example.com", fixedOp(10), make(chan Delivery, 1), 0, logging.NopLogger())

	if c.Generation() != 0 {
		t.Fatalf("initial generation = %d, want 0", c.Generation())
	}

	c.Stop()
	if c.Generation() != 1 {
		t.Errorf("generation after Stop = %d, want 1", c.Generation())
	}
	c.Clear()
	if c.Generation() != 2 {
		t.Errorf("generation after Clear = %d, want 2", c.Generation())
	}
	c.Reconfigure("other.example.com")
	if c.Generation() != 3 {
		t.Errorf("generation after Reconfigure = %d, want 3", c.Generation())
	}
	if c.Host() != "other.example.com" {
		t.Errorf("host after Reconfigure = %q, want %q", c.Host(), "other.example.com")
	}
}

func TestDeliver_AppliesNonStaleResult(t *testing.T) {
	deliveries := make(chan Delivery, 1)
	c := New("example.com", fixedOp(20), deliveries, 0, logging.NopLogger())

	c.Attempt(context.Background())
	d := awaitDelivery(t, deliveries)

	if status := c.Deliver(d); status != DeliveryApplied {
		t.Fatalf("Deliver = %v, want %v", status, DeliveryApplied)
	}
	if got := c.History().Len(); got != 1 {
		t.Errorf("history length = %d, want 1", got)
	}
	if latency, ok := c.Stats().LastLatency(); !ok || latency != 20 {
		t.Errorf("last latency = %v, %v; want 20, true", latency, ok)
	}
}

func TestDeliver_SurfacesNonStaleFailure(t *testing.T) {
	deliveries := make(chan Delivery, 1)
	opErr := errors.New("host unreachable")
	c := New("example.com", failingOp(opErr), deliveries, 0, logging.NopLogger())

	c.Attempt(context.Background())
	d := awaitDelivery(t, deliveries)

	if status := c.Deliver(d); status != DeliveryFailed {
		t.Fatalf("Deliver = %v, want %v", status, DeliveryFailed)
	}
	if !errors.Is(d.Err, opErr) {
		t.Errorf("delivery error = %v, want %v", d.Err, opErr)
	}
	if got := c.History().Len(); got != 0 {
		t.Errorf("history length after failure = %d, want 0", got)
	}
	if c.InFlight() {
		t.Error("gate still occupied after failed delivery")
	}
}

func TestScenario_StopBeforeCompletion(t *testing.T) {
	deliveries := make(chan Delivery, 1)
	c := New("example.com", fixedOp(30), deliveries, 0, logging.NopLogger())

	c.Attempt(context.Background())
	d := awaitDelivery(t, deliveries)

	c.Stop()

	if status := c.Deliver(d); status != DeliveryStale {
		t.Fatalf("Deliver after Stop = %v, want %v", status, DeliveryStale)
	}
	if got := c.History().Len(); got != 0 {
		t.Errorf("history length = %d, want 0", got)
	}
	if c.InFlight() {
		t.Error("gate still occupied after stale delivery")
	}
}

func TestScenario_ClearBeforeCompletion(t *testing.T) {
	deliveries := make(chan Delivery, 1)
	c := New("example.com", fixedOp(30), deliveries, 0, logging.NopLogger())

	// Seed some prior history, then dispatch and clear mid-flight.
	c.Attempt(context.Background())
	c.Deliver(awaitDelivery(t, deliveries))

	c.Attempt(context.Background())
	d := awaitDelivery(t, deliveries)
	c.Clear()

	if got := c.History().Len(); got != 0 {
		t.Fatalf("history length after Clear = %d, want 0", got)
	}
	if status := c.Deliver(d); status != DeliveryStale {
		t.Fatalf("Deliver after Clear = %v, want %v", status, DeliveryStale)
	}
	if got := c.History().Len(); got != 0 {
		t.Errorf("history length after stale delivery = %d, want 0", got)
	}
}

func TestScenario_RapidStopStart(t *testing.T) {
	deliveries := make(chan Delivery, 2)
	c := New("example.com", fixedOp(40), deliveries, 0, logging.NopLogger())

	// Dispatch A at generation 0, stop while it is in flight.
	c.Attempt(context.Background())
	a := awaitDelivery(t, deliveries)
	c.Stop()

	// A is discarded, freeing the gate for B at generation 1.
	if status := c.Deliver(a); status != DeliveryStale {
		t.Fatalf("Deliver(A) = %v, want %v", status, DeliveryStale)
	}
	if got := c.Attempt(context.Background()); got != AttemptDispatched {
		t.Fatalf("Attempt(B) = %v, want %v", got, AttemptDispatched)
	}
	b := awaitDelivery(t, deliveries)
	if b.Envelope.Generation != 1 {
		t.Fatalf("B generation = %d, want 1", b.Envelope.Generation)
	}
	if status := c.Deliver(b); status != DeliveryApplied {
		t.Fatalf("Deliver(B) = %v, want %v", status, DeliveryApplied)
	}
	if got := c.History().Len(); got != 1 {
		t.Errorf("history length = %d, want 1", got)
	}
}

func TestScenario_OutOfOrderCompletion(t *testing.T) {
	deliveries := make(chan Delivery, 2)
	block := make(chan struct{})
	c := New("example.com", func(ctx context.Context, host string) (measure.Measurement, error) {
		<-block
		return measure.NewSample(host, 10), nil
	}, deliveries, 0, logging.NopLogger())

	// Dispatch A at generation 0; it stays in flight.
	c.Attempt(context.Background())

	// B completed and delivers first. Its envelope was captured at the
	// same generation, so it must apply, and processing it releases the
	// gate even though A has not delivered yet.
	b := Delivery{
		Envelope: Envelope{Generation: 0, Host: "example.com", TaskID: "task-b"},
		Sample:   measure.NewSample("example.com", 55),
	}
	if status := c.Deliver(b); status != DeliveryApplied {
		t.Fatalf("Deliver(B) = %v, want %v", status, DeliveryApplied)
	}
	if c.InFlight() {
		t.Error("gate still occupied after processing B")
	}

	// Now A completes and delivers; generation is unchanged, so it applies
	// too. Application order follows delivery order, not dispatch order.
	close(block)
	a := awaitDelivery(t, deliveries)
	if status := c.Deliver(a); status != DeliveryApplied {
		t.Fatalf("Deliver(A) = %v, want %v", status, DeliveryApplied)
	}

	entries := c.History().All()
	if len(entries) != 2 {
		t.Fatalf("history length = %d, want 2", len(entries))
	}
	if entries[0].LatencyMS != 55 || entries[1].LatencyMS != 10 {
		t.Errorf("application order = [%v, %v], want [55, 10]",
			entries[0].LatencyMS, entries[1].LatencyMS)
	}
}

func TestDeliver_StaleFailureIsDiscardedToo(t *testing.T) {
	deliveries := make(chan Delivery, 1)
	c := New("example.com", failingOp(errors.New("unreachable")), deliveries, 0, logging.NopLogger())

	c.Attempt(context.Background())
	d := awaitDelivery(t, deliveries)
	c.Stop()

	if status := c.Deliver(d); status != DeliveryStale {
		t.Fatalf("Deliver = %v, want %v", status, DeliveryStale)
	}
}

func TestReconfigure_DiscardsInFlightAndUsesNewHost(t *testing.T) {
	deliveries := make(chan Delivery, 2)
	c := New("old.example.com", fixedOp(15), deliveries, 0, logging.NopLogger())

	c.Attempt(context.Background())
	d := awaitDelivery(t, deliveries)

	c.Reconfigure("new.example.com")

	if status := c.Deliver(d); status != DeliveryStale {
		t.Fatalf("Deliver for old host = %v, want %v", status, DeliveryStale)
	}

	c.Attempt(context.Background())
	next := awaitDelivery(t, deliveries)
	if next.Envelope.Host != "new.example.com" {
		t.Errorf("dispatched host = %q, want %q", next.Envelope.Host, "new.example.com")
	}
	if status := c.Deliver(next); status != DeliveryApplied {
		t.Fatalf("Deliver for new host = %v, want %v", status, DeliveryApplied)
	}
}

func TestEnvelope_CarriesDistinctTaskIDs(t *testing.T) {
	deliveries := make(chan Delivery, 2)
	c := New("example.com", fixedOp(10), deliveries, 0, logging.NopLogger())

	c.Attempt(context.Background())
	first := awaitDelivery(t, deliveries)
	c.Deliver(first)

	c.Attempt(context.Background())
	second := awaitDelivery(t, deliveries)
	c.Deliver(second)

	if first.Envelope.TaskID == "" || second.Envelope.TaskID == "" {
		t.Fatal("task IDs should not be empty")
	}
	if first.Envelope.TaskID == second.Envelope.TaskID {
		t.Error("task IDs should be unique per dispatch")
	}
}

func TestOutcomeStrings(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"skipped", AttemptSkipped.String(), "skipped"},
		{"dispatched", AttemptDispatched.String(), "dispatched"},
		{"applied", DeliveryApplied.String(), "applied"},
		{"failed", DeliveryFailed.String(), "failed"},
		{"stale", DeliveryStale.String(), "stale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
