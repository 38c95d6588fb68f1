package collector

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/pingmon/pingmon/internal/measure"
)

// Simulation parameters for the fake collector.
const (
	fakeBaseLatencyMS   = 25.0
	fakeLatencyVariance = 5.0
	fakeSpikeChance     = 0.05
	fakeSpikeMultiplier = 3.0
	fakeLossChance      = 0.02
)

// Fake is a simulated collector that generates plausible latency samples
// with occasional spikes and packet loss. A seed makes the sequence
// deterministic for tests.
type Fake struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFake creates a simulated collector. A seed of 0 selects a random seed.
func NewFake(seed int64) *Fake {
	if seed == 0 {
		return &Fake{rng: rand.New(rand.NewSource(rand.Int63()))}
	}
	return &Fake{rng: rand.New(rand.NewSource(seed))}
}

// Name implements Collector.
func (f *Fake) Name() string {
	return KindFake
}

// Sample implements Collector. It fails on an empty host; otherwise it
// produces loss with a small probability and a gaussian latency around the
// base otherwise, tripled on a spike.
func (f *Fake) Sample(_ context.Context, host string) (measure.Measurement, error) {
	if strings.TrimSpace(host) == "" {
		return measure.Measurement{}, fmt.Errorf("host cannot be empty")
	}

	f.mu.Lock()
	lossRoll := f.rng.Float64()
	spikeRoll := f.rng.Float64()
	noise := f.rng.NormFloat64() * fakeLatencyVariance
	f.mu.Unlock()

	if lossRoll < fakeLossChance {
		return measure.NewLoss(host), nil
	}

	latency := fakeBaseLatencyMS + noise
	if spikeRoll < fakeSpikeChance {
		latency = fakeBaseLatencyMS*fakeSpikeMultiplier + noise
	}
	latency = math.Max(0.1, latency)

	return measure.NewSample(host, math.Round(latency*100)/100), nil
}
