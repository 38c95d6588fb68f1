// Package scheduler coordinates sampling across multiple target hosts.
// It composes one probe.Coordinator per host, funnels all completions
// into a single delivery channel, and enforces a global bound on
// concurrently outstanding probes on top of each coordinator's own
// single-flight gate.
//
// Like the coordinators it owns, a Scheduler belongs to a single control
// goroutine; only the dispatched sampling operations run concurrently.
package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/pingmon/pingmon/internal/collector"
	"github.com/pingmon/pingmon/internal/logging"
	"github.com/pingmon/pingmon/internal/probe"
)

// Defaults for scheduler options.
const (
	DefaultInterval      = time.Second
	DefaultMaxConcurrent = 4
)

// Options configures a Scheduler.
type Options struct {
	// Interval is the sampling interval the caller's timer should use.
	Interval time.Duration
	// MaxConcurrent bounds globally outstanding probes across all hosts.
	MaxConcurrent int
	// HistoryLimit bounds each host's history (0 for the default).
	HistoryLimit int
	// Logger receives scheduler and coordinator logs; nil discards them.
	Logger *logging.Logger
}

// Stats is a snapshot of scheduler state for display and logging.
type Stats struct {
	Hosts         int
	InFlight      int
	MaxConcurrent int
	Monitoring    bool
}

// Scheduler schedules probes for a set of hosts.
type Scheduler struct {
	collector     collector.Collector
	interval      time.Duration
	maxConcurrent int
	historyLimit  int

	hosts  []string
	coords map[string]*probe.Coordinator

	// orphans counts probes whose coordinator was removed while they
	// were outstanding. They still hold operating-system resources
	// until they complete, so they count against the concurrency bound.
	orphans int

	deliveries chan probe.Delivery
	monitoring bool

	log *logging.Logger
}

// New creates a Scheduler sampling with c.
func New(c collector.Collector, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	log := opts.Logger
	if log == nil {
		log = logging.NopLogger()
	}
	return &Scheduler{
		collector:     c,
		interval:      opts.Interval,
		maxConcurrent: opts.MaxConcurrent,
		historyLimit:  opts.HistoryLimit,
		coords:        make(map[string]*probe.Coordinator),
		deliveries:    make(chan probe.Delivery, opts.MaxConcurrent*2),
		log:           log.WithComponent("scheduler"),
	}
}

// Deliveries returns the channel completed probes arrive on. The control
// goroutine must drain it and route each value through Deliver.
func (s *Scheduler) Deliveries() <-chan probe.Delivery {
	return s.deliveries
}

// AddHost adds a host to the monitored set. Blank and duplicate hosts are
// ignored.
func (s *Scheduler) AddHost(host string) {
	host = strings.TrimSpace(host)
	if host == "" {
		return
	}
	if _, ok := s.coords[host]; ok {
		return
	}
	s.hosts = append(s.hosts, host)
	s.coords[host] = probe.New(host, s.collector.Sample, s.deliveries, s.historyLimit, s.log)
	s.log.Debug("host added", "host", host, "total", len(s.hosts))
}

// RemoveHost removes a host. A probe still in flight for it is discarded
// on delivery.
func (s *Scheduler) RemoveHost(host string) {
	c, ok := s.coords[host]
	if !ok {
		return
	}
	if c.InFlight() {
		s.orphans++
	}
	delete(s.coords, host)
	for i, h := range s.hosts {
		if h == host {
			s.hosts = append(s.hosts[:i], s.hosts[i+1:]...)
			break
		}
	}
	s.log.Debug("host removed", "host", host, "remaining", len(s.hosts))
}

// Hosts returns the monitored hosts in insertion order.
func (s *Scheduler) Hosts() []string {
	out := make([]string, len(s.hosts))
	copy(out, s.hosts)
	return out
}

// HasHost reports whether host is monitored.
func (s *Scheduler) HasHost(host string) bool {
	_, ok := s.coords[host]
	return ok
}

// Coordinator returns the coordinator for host, for reading its history
// and statistics.
func (s *Scheduler) Coordinator(host string) (*probe.Coordinator, bool) {
	c, ok := s.coords[host]
	return c, ok
}

// ClearHosts removes every host.
func (s *Scheduler) ClearHosts() {
	for _, c := range s.coords {
		if c.InFlight() {
			s.orphans++
		}
	}
	s.hosts = nil
	s.coords = make(map[string]*probe.Coordinator)
	s.log.Debug("all hosts cleared")
}

// StartMonitoring enables scheduling on subsequent Tick calls.
func (s *Scheduler) StartMonitoring() {
	if s.monitoring {
		return
	}
	s.monitoring = true
	s.log.Info("monitoring started", "hosts", len(s.hosts), "interval", s.interval.String())
}

// StopMonitoring disables scheduling and invalidates all in-flight probes
// by advancing every coordinator's generation. Histories stay visible.
func (s *Scheduler) StopMonitoring() {
	if !s.monitoring {
		return
	}
	s.monitoring = false
	for _, c := range s.coords {
		c.Stop()
	}
	s.log.Info("monitoring stopped")
}

// Monitoring reports whether scheduling is enabled.
func (s *Scheduler) Monitoring() bool {
	return s.monitoring
}

// Clear empties every host's history and statistics and invalidates
// in-flight probes. Monitoring state is unchanged.
func (s *Scheduler) Clear() {
	for _, c := range s.coords {
		c.Clear()
	}
	s.log.Debug("histories cleared")
}

// SetInterval updates the sampling interval used by the caller's timer.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.interval = d
	s.log.Debug("interval updated", "interval", d.String())
}

// Interval returns the current sampling interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// InFlight returns the number of outstanding probes, including probes
// orphaned by host removal that have not completed yet.
func (s *Scheduler) InFlight() int {
	n := s.orphans
	for _, c := range s.coords {
		if c.InFlight() {
			n++
		}
	}
	return n
}

// Tick attempts to dispatch a probe for each host that has none
// outstanding, up to the global concurrency bound. It returns the number
// of probes dispatched. Ticks while stopped, over budget, or with no
// hosts dispatch nothing; an overlapping probe on a host is simply
// skipped for this cycle.
func (s *Scheduler) Tick(ctx context.Context) int {
	if !s.monitoring || len(s.hosts) == 0 {
		return 0
	}

	budget := s.maxConcurrent - s.InFlight()
	if budget <= 0 {
		s.log.Debug("tick skipped at concurrency limit",
			"in_flight", s.InFlight(), "max_concurrent", s.maxConcurrent)
		return 0
	}

	dispatched := 0
	for _, host := range s.hosts {
		if budget <= 0 {
			break
		}
		if s.coords[host].Attempt(ctx) == probe.AttemptDispatched {
			dispatched++
			budget--
		}
	}
	if dispatched > 0 {
		s.log.Debug("tick dispatched", "count", dispatched, "in_flight", s.InFlight())
	}
	return dispatched
}

// Deliver routes a completed probe to the coordinator that dispatched
// it, identified by the envelope's task ID. A delivery whose dispatching
// coordinator is gone is discarded as stale: the host was removed, or
// removed and re-added with a fresh coordinator whose generations may
// overlap the old one's. The current coordinator's gate is never
// touched by such a delivery; only its own task may release it.
func (s *Scheduler) Deliver(d probe.Delivery) probe.DeliveryStatus {
	c, ok := s.coords[d.Envelope.Host]
	if !ok || c.PendingTask() != d.Envelope.TaskID {
		if s.orphans > 0 {
			s.orphans--
		}
		s.log.Debug("orphaned delivery discarded",
			"host", d.Envelope.Host, "task_id", d.Envelope.TaskID)
		return probe.DeliveryStale
	}
	return c.Deliver(d)
}

// Stats returns a snapshot of scheduler state.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Hosts:         len(s.hosts),
		InFlight:      s.InFlight(),
		MaxConcurrent: s.maxConcurrent,
		Monitoring:    s.monitoring,
	}
}
