package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pingmon/pingmon/internal/probe"
	"github.com/pingmon/pingmon/internal/scheduler"
)

// tickMsg drives the sampling schedule
type tickMsg time.Time

// deliveryMsg carries a completed probe back to the update loop
type deliveryMsg struct {
	delivery probe.Delivery
}

// exportDoneMsg reports the result of a CSV export
type exportDoneMsg struct {
	path string
	err  error
}

// errMsg wraps an error for display in the UI
type errMsg struct {
	err error
}

// Commands

// tick returns a command that sends a tickMsg after the sampling interval.
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForDelivery returns a command that blocks on the scheduler's delivery
// channel and hands the next completed probe to the update loop. Results are
// only applied there, so probe goroutines never touch model state.
func waitForDelivery(s *scheduler.Scheduler) tea.Cmd {
	return func() tea.Msg {
		return deliveryMsg{delivery: <-s.Deliveries()}
	}
}
