package collector

import (
	"context"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pingmon/pingmon/internal/measure"
)

// DefaultTimeoutMS is the default per-probe timeout for the ping collector.
const DefaultTimeoutMS = 1000

// Ping measures latency with the system ping command. Every failure
// mode of the command (non-zero exit, timeout, unparseable output)
// is reported as a lost packet rather than an error, so transient
// network conditions show up in the measurements instead of aborting
// the monitoring loop.
//
// Parsing relies on the English "time" keyword in ping output; on
// localized systems samples degrade to loss.
type Ping struct {
	timeout time.Duration
	goos    string
}

// NewPing creates a ping collector with the given per-probe timeout in
// milliseconds. Non-positive values fall back to DefaultTimeoutMS.
func NewPing(timeoutMS int) *Ping {
	if timeoutMS <= 0 {
		timeoutMS = DefaultTimeoutMS
	}
	return &Ping{
		timeout: time.Duration(timeoutMS) * time.Millisecond,
		goos:    runtime.GOOS,
	}
}

// Name implements Collector.
func (p *Ping) Name() string {
	return KindPing
}

// Sample implements Collector.
func (p *Ping) Sample(ctx context.Context, host string) (measure.Measurement, error) {
	if strings.TrimSpace(host) == "" {
		return measure.NewLoss(host), nil
	}

	// The subprocess deadline gets a small buffer beyond the ping
	// timeout so ping's own timeout handling is what normally fires.
	ctx, cancel := context.WithTimeout(ctx, p.timeout+500*time.Millisecond)
	defer cancel()

	name, args := p.command(host)
	out, err := runCommand(ctx, name, args)
	if err != nil {
		// Includes non-zero exit and context deadline; both mean loss.
		return measure.NewLoss(host), nil
	}

	latency, ok := ParseLatency(out)
	if !ok {
		return measure.NewLoss(host), nil
	}
	return measure.NewSample(host, latency), nil
}

// command builds the platform-specific ping invocation for one echo
// request with the configured timeout.
func (p *Ping) command(host string) (string, []string) {
	switch p.goos {
	case "windows":
		return "ping", []string{"-n", "1", "-w", strconv.Itoa(int(p.timeout.Milliseconds())), host}
	case "linux":
		secs := int(p.timeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		return "ping", []string{"-c", "1", "-W", strconv.Itoa(secs), host}
	default:
		// macOS/BSD -W has different semantics; rely on the context
		// deadline instead.
		return "ping", []string{"-c", "1", host}
	}
}
