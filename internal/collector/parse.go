package collector

import (
	"regexp"
	"strconv"
)

var (
	// Windows fast responses report "time<Nms"; interpreted as the N/2
	// midpoint estimate (time<1ms reads as 0.5).
	lessThanPattern = regexp.MustCompile(`(?i)time<(\d+)`)

	// Standard forms: "time=12.3 ms", "time=15ms", "time = 25 ms".
	latencyPattern = regexp.MustCompile(`(?i)time\s*[=<]\s*(\d+(?:\.\d+)?)\s*ms`)
)

// ParseLatency extracts the round-trip latency in milliseconds from ping
// command output. It handles Linux/macOS "time=12.3 ms" and Windows
// "time=12ms" and "time<1ms" forms. ok is false when no latency is found.
func ParseLatency(output string) (latencyMS float64, ok bool) {
	if output == "" {
		return 0, false
	}

	if m := lessThanPattern.FindStringSubmatch(output); m != nil {
		threshold, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return threshold / 2, true
	}

	if m := latencyPattern.FindStringSubmatch(output); m != nil {
		latency, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return latency, true
	}

	return 0, false
}
