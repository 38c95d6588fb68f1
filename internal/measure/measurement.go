// Package measure defines the measurement data model and the rolling
// statistics derived from accepted samples.
package measure

import "time"

// Measurement is a single network probe sample.
type Measurement struct {
	// TS is the time the sample was taken.
	TS time.Time
	// Host is the probed target.
	Host string
	// LatencyMS is the round-trip latency in milliseconds.
	// It is meaningful only when Loss is false.
	LatencyMS float64
	// Loss reports that the probe received no response.
	Loss bool
}

// NewSample returns a successful measurement for host.
func NewSample(host string, latencyMS float64) Measurement {
	return Measurement{
		TS:        time.Now(),
		Host:      host,
		LatencyMS: latencyMS,
	}
}

// NewLoss returns a lost-packet measurement for host.
func NewLoss(host string) Measurement {
	return Measurement{
		TS:   time.Now(),
		Host: host,
		Loss: true,
	}
}

// Normalize enforces consistency between LatencyMS and Loss:
// a lost sample carries no latency value.
func (m *Measurement) Normalize() {
	if m.Loss {
		m.LatencyMS = 0
	}
}
