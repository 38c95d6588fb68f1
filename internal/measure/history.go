package measure

// DefaultHistoryLimit is the default number of measurements a History retains.
const DefaultHistoryLimit = 300

// History is a bounded, ordered log of accepted measurements.
// When the limit is reached the oldest entry is dropped first.
// It is not safe for concurrent use; the owning goroutine is expected
// to be the only writer.
type History struct {
	entries []Measurement
	limit   int
}

// NewHistory creates a History that retains at most limit entries.
// A non-positive limit falls back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Append adds a measurement, evicting the oldest entry at capacity.
func (h *History) Append(m Measurement) {
	if len(h.entries) >= h.limit {
		// Shift rather than reslice so the backing array does not grow
		// without bound over the life of the monitor.
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = m
		return
	}
	h.entries = append(h.entries, m)
}

// Len returns the number of retained measurements.
func (h *History) Len() int {
	return len(h.entries)
}

// All returns a copy of the retained measurements in chronological order.
func (h *History) All() []Measurement {
	out := make([]Measurement, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear drops all retained measurements.
func (h *History) Clear() {
	h.entries = h.entries[:0]
}

// Limit returns the retention limit.
func (h *History) Limit() int {
	return h.limit
}
