package measure

import "math"

// Window sizes for the rolling per-host aggregates. Jitter is computed
// over a shorter window than loss so it tracks recent conditions.
const (
	latencyWindow = 30
	sampleWindow  = 50
)

// HostStats keeps rolling aggregates for a single host: the most recent
// latency, jitter (sample standard deviation over the latency window),
// and loss percentage over the sample window.
// It is not safe for concurrent use.
type HostStats struct {
	latencies []float64
	losses    []bool
}

// NewHostStats returns empty rolling statistics.
func NewHostStats() *HostStats {
	return &HostStats{}
}

// Observe folds a measurement into the rolling windows.
func (s *HostStats) Observe(m Measurement) {
	s.losses = append(s.losses, m.Loss)
	if len(s.losses) > sampleWindow {
		s.losses = s.losses[1:]
	}
	if !m.Loss {
		s.latencies = append(s.latencies, m.LatencyMS)
		if len(s.latencies) > latencyWindow {
			s.latencies = s.latencies[1:]
		}
	}
}

// LastLatency returns the most recent successful latency.
// ok is false when no successful sample is in the window.
func (s *HostStats) LastLatency() (latencyMS float64, ok bool) {
	if len(s.latencies) == 0 {
		return 0, false
	}
	return s.latencies[len(s.latencies)-1], true
}

// Jitter returns the sample standard deviation of the latency window.
// ok is false until at least two successful samples have been observed.
func (s *HostStats) Jitter() (jitterMS float64, ok bool) {
	n := len(s.latencies)
	if n < 2 {
		return 0, false
	}
	var sum float64
	for _, l := range s.latencies {
		sum += l
	}
	mean := sum / float64(n)
	var sq float64
	for _, l := range s.latencies {
		d := l - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1)), true
}

// LossPercent returns the share of lost samples in the sample window,
// in percent. ok is false until at least one sample has been observed.
func (s *HostStats) LossPercent() (percent float64, ok bool) {
	if len(s.losses) == 0 {
		return 0, false
	}
	lost := 0
	for _, l := range s.losses {
		if l {
			lost++
		}
	}
	return float64(lost) / float64(len(s.losses)) * 100, true
}

// SampleCount returns the number of samples in the loss window.
func (s *HostStats) SampleCount() int {
	return len(s.losses)
}

// Reset drops all rolling state.
func (s *HostStats) Reset() {
	s.latencies = s.latencies[:0]
	s.losses = s.losses[:0]
}
