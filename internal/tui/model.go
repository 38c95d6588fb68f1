package tui

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/pingmon/pingmon/internal/config"
	"github.com/pingmon/pingmon/internal/logging"
	"github.com/pingmon/pingmon/internal/measure"
	"github.com/pingmon/pingmon/internal/scheduler"
)

// sampling intervals the i key cycles through
var intervalSteps = []time.Duration{
	200 * time.Millisecond,
	500 * time.Millisecond,
	1 * time.Second,
	2 * time.Second,
}

// Model holds the TUI application state
type Model struct {
	sched *scheduler.Scheduler
	cfg   *config.Config
	log   *logging.Logger

	table     table.Model
	hostInput textinput.Model

	// UI state
	selected     int // index into sched.Hosts(); -1 shows every host
	follow       bool
	paused       bool
	addingHost   bool
	width        int
	height       int
	ready        bool
	quitting     bool
	infoMessage  string
	errorMessage string
}

// NewModel creates a new TUI model
func NewModel(sched *scheduler.Scheduler, cfg *config.Config, log *logging.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "host or IP"
	ti.CharLimit = 253
	ti.Width = 30

	columns := []table.Column{
		{Title: "Time", Width: 10},
		{Title: "Host", Width: 24},
		{Title: "Latency", Width: 12},
		{Title: "Status", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)

	return Model{
		sched:     sched,
		cfg:       cfg,
		log:       log.WithComponent("tui"),
		table:     t,
		hostInput: ti,
		selected:  allHosts,
		follow:    cfg.TUI.FollowTail,
	}
}

// allHosts is the filter position showing every host's samples merged.
// It is the default view.
const allHosts = -1

// allHostsView reports whether the table shows the merged view.
func (m Model) allHostsView() bool {
	return m.selected == allHosts
}

// selectedHost returns the host currently highlighted in the sidebar,
// or the empty string in the all-hosts view.
func (m Model) selectedHost() string {
	hosts := m.sched.Hosts()
	if m.selected < 0 || len(hosts) == 0 {
		return ""
	}
	if m.selected >= len(hosts) {
		return hosts[len(hosts)-1]
	}
	return hosts[m.selected]
}

// clampSelection keeps the sidebar selection inside the host list,
// falling back to the all-hosts view when the list shrinks under it.
func (m *Model) clampSelection() {
	n := len(m.sched.Hosts())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = allHosts
	}
}

// refreshTable rebuilds the results table from the current filter:
// one host's history, or every host's merged chronologically.
func (m *Model) refreshTable() {
	var samples []measure.Measurement
	if m.allHostsView() {
		samples = m.allSamples()
	} else if c, ok := m.sched.Coordinator(m.selectedHost()); ok {
		samples = c.History().All()
	}
	if max := m.cfg.TUI.MaxTableRows; len(samples) > max {
		samples = samples[len(samples)-max:]
	}
	rows := make([]table.Row, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, sampleRow(s))
	}
	m.table.SetRows(rows)
	if m.follow {
		m.table.GotoBottom()
	}
}

func sampleRow(s measure.Measurement) table.Row {
	latency := "-"
	status := "ok"
	if s.Loss {
		status = "LOST"
	} else {
		latency = fmt.Sprintf("%.2f ms", s.LatencyMS)
	}
	return table.Row{
		s.TS.Format("15:04:05"),
		s.Host,
		latency,
		status,
	}
}

// allSamples snapshots every host's history, oldest first, for export
// and the all-hosts view.
func (m Model) allSamples() []measure.Measurement {
	var out []measure.Measurement
	for _, host := range m.sched.Hosts() {
		if c, ok := m.sched.Coordinator(host); ok {
			out = append(out, c.History().All()...)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TS.Before(out[j].TS) })
	return out
}

// nextInterval returns the step after the current sampling interval,
// wrapping around to the first.
func nextInterval(current time.Duration) time.Duration {
	for i, step := range intervalSteps {
		if step == current {
			return intervalSteps[(i+1)%len(intervalSteps)]
		}
	}
	return intervalSteps[0]
}
