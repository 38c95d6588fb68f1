package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/pingmon/pingmon/internal/measure"
	"github.com/pingmon/pingmon/internal/probe"
)

// stubCollector returns a fixed latency, optionally blocking on a channel
// so tests can hold probes in flight.
type stubCollector struct {
	block   chan struct{}
	latency float64
}

func (s *stubCollector) Name() string { return "stub" }

func (s *stubCollector) Sample(_ context.Context, host string) (measure.Measurement, error) {
	if s.block != nil {
		<-s.block
	}
	return measure.NewSample(host, s.latency), nil
}

func awaitDeliveries(t *testing.T, s *Scheduler, n int) []probe.Delivery {
	t.Helper()
	out := make([]probe.Delivery, 0, n)
	for len(out) < n {
		select {
		case d := <-s.Deliveries():
			out = append(out, d)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out after %d of %d deliveries", len(out), n)
		}
	}
	return out
}

func TestAddHost_TrimsAndDeduplicates(t *testing.T) {
	s := New(&stubCollector{}, Options{})

	s.AddHost("  example.com ")
	s.AddHost("example.com")
	s.AddHost("")
	s.AddHost("   ")
	s.AddHost("8.8.8.8")

	hosts := s.Hosts()
	if len(hosts) != 2 {
		t.Fatalf("hosts = %v, want 2 entries", hosts)
	}
	if hosts[0] != "example.com" || hosts[1] != "8.8.8.8" {
		t.Errorf("hosts = %v, want [example.com 8.8.8.8]", hosts)
	}
}

func TestRemoveHost(t *testing.T) {
	s := New(&stubCollector{}, Options{})
	s.AddHost("a.example.com")
	s.AddHost("b.example.com")

	s.RemoveHost("a.example.com")
	if s.HasHost("a.example.com") {
		t.Error("a.example.com still present after removal")
	}
	if !s.HasHost("b.example.com") {
		t.Error("b.example.com should remain")
	}

	// Removing an unknown host is a no-op.
	s.RemoveHost("missing.example.com")
	if len(s.Hosts()) != 1 {
		t.Errorf("hosts = %v, want 1 entry", s.Hosts())
	}
}

func TestTick_RequiresMonitoring(t *testing.T) {
	s := New(&stubCollector{}, Options{})
	s.AddHost("example.com")

	if n := s.Tick(context.Background()); n != 0 {
		t.Errorf("Tick while stopped dispatched %d, want 0", n)
	}

	s.StartMonitoring()
	if n := s.Tick(context.Background()); n != 1 {
		t.Errorf("Tick while monitoring dispatched %d, want 1", n)
	}
	s.Deliver(awaitDeliveries(t, s, 1)[0])
}

func TestTick_DispatchesEveryIdleHost(t *testing.T) {
	s := New(&stubCollector{latency: 10}, Options{})
	s.AddHost("a.example.com")
	s.AddHost("b.example.com")
	s.StartMonitoring()

	if n := s.Tick(context.Background()); n != 2 {
		t.Fatalf("dispatched %d, want 2", n)
	}

	for _, d := range awaitDeliveries(t, s, 2) {
		if status := s.Deliver(d); status != probe.DeliveryApplied {
			t.Errorf("Deliver(%s) = %v, want applied", d.Envelope.Host, status)
		}
	}

	for _, host := range []string{"a.example.com", "b.example.com"} {
		c, ok := s.Coordinator(host)
		if !ok {
			t.Fatalf("no coordinator for %s", host)
		}
		if c.History().Len() != 1 {
			t.Errorf("%s history = %d, want 1", host, c.History().Len())
		}
	}
}

func TestTick_GlobalConcurrencyBound(t *testing.T) {
	block := make(chan struct{})
	s := New(&stubCollector{block: block}, Options{MaxConcurrent: 2})
	for _, h := range []string{"a", "b", "c", "d"} {
		s.AddHost(h + ".example.com")
	}
	s.StartMonitoring()

	if n := s.Tick(context.Background()); n != 2 {
		t.Fatalf("first tick dispatched %d, want 2", n)
	}
	if n := s.Tick(context.Background()); n != 0 {
		t.Fatalf("tick at capacity dispatched %d, want 0", n)
	}
	if got := s.InFlight(); got != 2 {
		t.Fatalf("in flight = %d, want 2", got)
	}

	close(block)
	for _, d := range awaitDeliveries(t, s, 2) {
		s.Deliver(d)
	}

	// Capacity freed; the remaining hosts get their turn.
	if n := s.Tick(context.Background()); n != 2 {
		t.Errorf("tick after drain dispatched %d, want 2", n)
	}
	for _, d := range awaitDeliveries(t, s, 2) {
		s.Deliver(d)
	}
}

func TestTick_SkipsHostWithProbeInFlight(t *testing.T) {
	block := make(chan struct{})
	s := New(&stubCollector{block: block}, Options{MaxConcurrent: 4})
	s.AddHost("example.com")
	s.StartMonitoring()

	if n := s.Tick(context.Background()); n != 1 {
		t.Fatalf("dispatched %d, want 1", n)
	}
	if n := s.Tick(context.Background()); n != 0 {
		t.Errorf("re-tick dispatched %d, want 0 (probe outstanding)", n)
	}

	close(block)
	s.Deliver(awaitDeliveries(t, s, 1)[0])

	if n := s.Tick(context.Background()); n != 1 {
		t.Errorf("tick after delivery dispatched %d, want 1", n)
	}
	s.Deliver(awaitDeliveries(t, s, 1)[0])
}

func TestStopMonitoring_InvalidatesInFlightProbes(t *testing.T) {
	s := New(&stubCollector{latency: 10}, Options{})
	s.AddHost("example.com")
	s.StartMonitoring()
	s.Tick(context.Background())

	d := awaitDeliveries(t, s, 1)[0]
	s.StopMonitoring()

	if status := s.Deliver(d); status != probe.DeliveryStale {
		t.Fatalf("Deliver after stop = %v, want stale", status)
	}
	c, _ := s.Coordinator("example.com")
	if c.History().Len() != 0 {
		t.Errorf("history = %d, want 0", c.History().Len())
	}
	if s.InFlight() != 0 {
		t.Error("probes still counted in flight after delivery")
	}
}

func TestDeliver_RemovedHostIsDiscarded(t *testing.T) {
	s := New(&stubCollector{latency: 10}, Options{})
	s.AddHost("example.com")
	s.StartMonitoring()
	s.Tick(context.Background())

	d := awaitDeliveries(t, s, 1)[0]
	s.RemoveHost("example.com")

	if status := s.Deliver(d); status != probe.DeliveryStale {
		t.Errorf("Deliver for removed host = %v, want stale", status)
	}
}

func TestRemoveThenReAddHost_DiscardsOrphanedProbe(t *testing.T) {
	block := make(chan struct{})
	s := New(&stubCollector{block: block, latency: 10}, Options{})
	s.AddHost("example.com")
	s.StartMonitoring()

	// First incarnation dispatches a probe that stays in flight across
	// the remove and re-add.
	if n := s.Tick(context.Background()); n != 1 {
		t.Fatalf("first tick dispatched %d, want 1", n)
	}
	s.RemoveHost("example.com")
	s.AddHost("example.com")

	// The fresh coordinator dispatches its own probe for the same host.
	if n := s.Tick(context.Background()); n != 1 {
		t.Fatalf("tick after re-add dispatched %d, want 1", n)
	}
	c, _ := s.Coordinator("example.com")
	own := c.PendingTask()

	close(block)
	deliveries := awaitDeliveries(t, s, 2)

	// Deliver the orphaned probe first. Both envelopes carry the same
	// host and generation zero, so only task identity tells them apart.
	for _, d := range deliveries {
		if d.Envelope.TaskID == own {
			continue
		}
		if status := s.Deliver(d); status != probe.DeliveryStale {
			t.Fatalf("orphaned delivery = %v, want stale", status)
		}
	}
	if c.History().Len() != 0 {
		t.Fatalf("orphaned sample recorded on re-added host: history = %d, want 0", c.History().Len())
	}
	if !c.InFlight() {
		t.Fatal("orphaned delivery released the re-added host's gate")
	}

	for _, d := range deliveries {
		if d.Envelope.TaskID != own {
			continue
		}
		if status := s.Deliver(d); status != probe.DeliveryApplied {
			t.Fatalf("own delivery = %v, want applied", status)
		}
	}
	if c.History().Len() != 1 {
		t.Errorf("history = %d, want 1", c.History().Len())
	}
	if c.InFlight() {
		t.Error("gate still held after own delivery")
	}
}

func TestInFlight_CountsOrphanedProbes(t *testing.T) {
	block := make(chan struct{})
	s := New(&stubCollector{block: block, latency: 10}, Options{MaxConcurrent: 1})
	s.AddHost("a.example.com")
	s.StartMonitoring()
	s.Tick(context.Background())

	s.RemoveHost("a.example.com")
	if got := s.InFlight(); got != 1 {
		t.Fatalf("in flight after removal = %d, want 1", got)
	}

	// The orphan still holds the only concurrency slot.
	s.AddHost("b.example.com")
	if n := s.Tick(context.Background()); n != 0 {
		t.Fatalf("tick at capacity dispatched %d, want 0", n)
	}

	close(block)
	if status := s.Deliver(awaitDeliveries(t, s, 1)[0]); status != probe.DeliveryStale {
		t.Fatalf("orphaned delivery = %v, want stale", status)
	}
	if got := s.InFlight(); got != 0 {
		t.Fatalf("in flight after orphan completed = %d, want 0", got)
	}
	if n := s.Tick(context.Background()); n != 1 {
		t.Errorf("tick after slot freed dispatched %d, want 1", n)
	}
	s.Deliver(awaitDeliveries(t, s, 1)[0])
}

func TestClear_EmptiesHistoriesAndInvalidates(t *testing.T) {
	s := New(&stubCollector{latency: 10}, Options{})
	s.AddHost("example.com")
	s.StartMonitoring()

	s.Tick(context.Background())
	s.Deliver(awaitDeliveries(t, s, 1)[0])

	// Second probe in flight while we clear.
	s.Tick(context.Background())
	d := awaitDeliveries(t, s, 1)[0]
	s.Clear()

	c, _ := s.Coordinator("example.com")
	if c.History().Len() != 0 {
		t.Fatalf("history after Clear = %d, want 0", c.History().Len())
	}
	if status := s.Deliver(d); status != probe.DeliveryStale {
		t.Fatalf("Deliver after Clear = %v, want stale", status)
	}
	if c.History().Len() != 0 {
		t.Errorf("history re-populated by stale delivery")
	}
	if !s.Monitoring() {
		t.Error("Clear should not stop monitoring")
	}
}

func TestSetInterval(t *testing.T) {
	s := New(&stubCollector{}, Options{Interval: time.Second})

	s.SetInterval(200 * time.Millisecond)
	if s.Interval() != 200*time.Millisecond {
		t.Errorf("interval = %v, want 200ms", s.Interval())
	}

	s.SetInterval(0)
	if s.Interval() != 200*time.Millisecond {
		t.Errorf("non-positive interval accepted: %v", s.Interval())
	}
}

func TestStats(t *testing.T) {
	s := New(&stubCollector{}, Options{MaxConcurrent: 3})
	s.AddHost("a.example.com")
	s.AddHost("b.example.com")

	got := s.Stats()
	want := Stats{Hosts: 2, InFlight: 0, MaxConcurrent: 3, Monitoring: false}
	if got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
}
