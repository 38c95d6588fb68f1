// Package collector provides the measurement operations pingmon samples
// with: a real ICMP collector built on the system ping command, and a
// simulated collector for development and tests.
package collector

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pingmon/pingmon/internal/measure"
)

// Collector produces one measurement per call. Implementations must be
// safe to call from multiple goroutines and must not depend on being
// called from any particular goroutine.
type Collector interface {
	// Name identifies the collector kind, e.g. "ping" or "fake".
	Name() string

	// Sample probes host once. A lost packet is a successful call with
	// Loss set; an error means the operation itself could not run.
	Sample(ctx context.Context, host string) (measure.Measurement, error)
}

// Collector kinds accepted in configuration.
const (
	KindAuto = "auto"
	KindPing = "ping"
	KindFake = "fake"
)

// Detect selects a collector for the given kind. With KindAuto it prefers
// the system ping command and falls back to the simulated collector when
// ping is not on PATH. The returned note is a human-readable explanation
// of any fallback, empty when the requested collector was used.
func Detect(kind string, timeoutMS int) (Collector, string) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindFake:
		return NewFake(0), ""
	case KindPing:
		return NewPing(timeoutMS), ""
	default:
		if _, err := exec.LookPath("ping"); err != nil {
			return NewFake(0), "using simulated data (ping command not available)"
		}
		return NewPing(timeoutMS), ""
	}
}
