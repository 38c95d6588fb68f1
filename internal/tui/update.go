package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pingmon/pingmon/internal/export"
	"github.com/pingmon/pingmon/internal/measure"
	"github.com/pingmon/pingmon/internal/probe"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tick(m.sched.Interval()),
		waitForDelivery(m.sched),
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeTable()
		return m, nil

	case tickMsg:
		if !m.paused {
			if n := m.sched.Tick(context.Background()); n > 0 {
				m.log.Debug("tick dispatched probes", "count", n)
			}
		}
		return m, tick(m.sched.Interval())

	case deliveryMsg:
		status := m.sched.Deliver(msg.delivery)
		switch status {
		case probe.DeliveryApplied:
			if m.allHostsView() || msg.delivery.Envelope.Host == m.selectedHost() {
				m.refreshTable()
			}
		case probe.DeliveryFailed:
			m.errorMessage = fmt.Sprintf("probe failed for %s: %v",
				msg.delivery.Envelope.Host, msg.delivery.Err)
		}
		// Stale deliveries are dropped without comment.
		return m, waitForDelivery(m.sched)

	case exportDoneMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("export failed: %v", msg.err)
		} else {
			m.infoMessage = fmt.Sprintf("exported to %s", msg.path)
		}
		return m, nil

	case errMsg:
		m.errorMessage = msg.err.Error()
		return m, nil
	}

	return m, nil
}

// handleKeypress processes keyboard input
func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Host entry mode captures everything except escape and enter.
	if m.addingHost {
		return m.handleHostInput(msg)
	}

	// A new message resets the transient status line.
	m.infoMessage = ""
	m.errorMessage = ""

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.sched.StopMonitoring()
		return m, tea.Quit

	case " ":
		if m.paused {
			m.paused = false
			m.sched.StartMonitoring()
			m.infoMessage = "monitoring resumed"
		} else {
			m.paused = true
			m.sched.StopMonitoring()
			m.infoMessage = "monitoring paused"
		}
		return m, nil

	case "a":
		m.addingHost = true
		m.hostInput.SetValue("")
		m.hostInput.Focus()
		return m, nil

	case "d":
		host := m.selectedHost()
		if host == "" {
			if len(m.sched.Hosts()) > 0 {
				m.errorMessage = "select a host to remove"
			}
			return m, nil
		}
		m.sched.RemoveHost(host)
		m.clampSelection()
		m.refreshTable()
		m.infoMessage = fmt.Sprintf("removed %s", host)
		return m, nil

	case "c":
		m.sched.Clear()
		m.refreshTable()
		m.infoMessage = "history cleared"
		return m, nil

	case "e":
		samples := m.allSamples()
		if len(samples) == 0 {
			m.errorMessage = "nothing to export"
			return m, nil
		}
		return m, m.exportCmd(samples)

	case "f":
		m.follow = !m.follow
		if m.follow {
			m.table.GotoBottom()
			m.infoMessage = "following newest samples"
		} else {
			m.infoMessage = "follow off"
		}
		return m, nil

	case "i":
		next := nextInterval(m.sched.Interval())
		m.sched.SetInterval(next)
		m.infoMessage = fmt.Sprintf("interval %s", next)
		return m, nil

	case "tab", "l", "right":
		if n := len(m.sched.Hosts()); n > 0 {
			m.selected++
			if m.selected >= n {
				m.selected = allHosts
			}
			m.refreshTable()
		}
		return m, nil

	case "shift+tab", "h", "left":
		if n := len(m.sched.Hosts()); n > 0 {
			m.selected--
			if m.selected < allHosts {
				m.selected = n - 1
			}
			m.refreshTable()
		}
		return m, nil

	case "up", "k", "down", "j", "pgup", "pgdown", "home", "end":
		// Manual scrolling takes the table out of follow mode.
		m.follow = false
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleHostInput processes keys while the add-host prompt is open
func (m Model) handleHostInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.addingHost = false
		m.hostInput.Blur()
		return m, nil

	case tea.KeyEnter:
		host := m.hostInput.Value()
		m.addingHost = false
		m.hostInput.Blur()
		if host != "" {
			before := len(m.sched.Hosts())
			m.sched.AddHost(host)
			if len(m.sched.Hosts()) > before {
				m.infoMessage = fmt.Sprintf("added %s", host)
			} else {
				m.errorMessage = fmt.Sprintf("host %q not added", host)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.hostInput, cmd = m.hostInput.Update(msg)
	return m, cmd
}

// exportCmd writes the given snapshot to a timestamped CSV off the
// update loop.
func (m Model) exportCmd(samples []measure.Measurement) tea.Cmd {
	path := export.DefaultPath(m.cfg.Export.ResolveDir())
	return func() tea.Msg {
		written, err := export.WriteCSV(path, samples)
		return exportDoneMsg{path: written, err: err}
	}
}

// resizeTable fits the results table to the current terminal size.
func (m *Model) resizeTable() {
	sidebar := m.cfg.TUI.SidebarWidth
	if sidebar <= 0 {
		sidebar = 28
	}
	width := m.width - sidebar - 6
	if width < 40 {
		width = 40
	}
	height := m.height - 7
	if height < 3 {
		height = 3
	}
	m.table.SetWidth(width)
	m.table.SetHeight(height)
	m.refreshTable()
}
