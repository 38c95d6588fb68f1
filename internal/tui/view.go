package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pingmon/pingmon/internal/tui/styles"
	"github.com/pingmon/pingmon/internal/util"
)

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSidebar(),
		" ",
		styles.ContentBox.Render(m.table.View()),
	))
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := styles.Title.Render("pingmon")
	stats := m.sched.Stats()
	info := styles.Subtitle.Render(fmt.Sprintf(
		"  %d hosts · every %s · %d/%d in flight",
		stats.Hosts, m.sched.Interval(), stats.InFlight, stats.MaxConcurrent))

	badge := ""
	if m.paused {
		badge = "  " + styles.StatusPaused.Render("PAUSED")
	}
	return title + info + badge
}

func (m Model) renderSidebar() string {
	width := m.cfg.TUI.SidebarWidth
	if width <= 0 {
		width = 28
	}

	var lines []string
	hosts := m.sched.Hosts()
	if len(hosts) == 0 {
		lines = append(lines, styles.Muted.Render("no hosts"))
		lines = append(lines, styles.Muted.Render("press a to add one"))
	} else if m.allHostsView() {
		lines = append(lines, styles.HostSelected.Render("all hosts"))
	} else {
		lines = append(lines, styles.HostNormal.Render("all hosts"))
	}
	for i, host := range hosts {
		name := util.TruncateString(host, width-4)
		if i == m.selected {
			lines = append(lines, styles.HostSelected.Render(name))
		} else {
			lines = append(lines, styles.HostNormal.Render(name))
		}
		lines = append(lines, styles.HostStats.Render(m.hostStatsLine(host)))
	}

	if m.addingHost {
		lines = append(lines, "")
		lines = append(lines, styles.Text.Render("add host:"))
		lines = append(lines, m.hostInput.View())
	}

	height := m.height - 7
	if height < 3 {
		height = 3
	}
	return styles.SidebarBox.
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

// hostStatsLine formats last latency, jitter and loss for the sidebar.
func (m Model) hostStatsLine(host string) string {
	c, ok := m.sched.Coordinator(host)
	if !ok {
		return ""
	}
	stats := c.Stats()
	if stats.SampleCount() == 0 {
		if c.InFlight() {
			return "probing…"
		}
		return "waiting"
	}

	lastText := "lost"
	if last, ok := stats.LastLatency(); ok {
		lastText = lipgloss.NewStyle().
			Foreground(styles.ForLatency(last)).
			Render(fmt.Sprintf("%.0fms", last))
	}
	jitterText := "±?"
	if jitter, ok := stats.Jitter(); ok {
		jitterText = fmt.Sprintf("±%.1f", jitter)
	}
	lossText := ""
	if loss, ok := stats.LossPercent(); ok {
		lossText = fmt.Sprintf("%.0f%% loss", loss)
	}
	return fmt.Sprintf("%s %s %s", lastText, jitterText, lossText)
}

func (m Model) renderStatusLine() string {
	var line string
	switch {
	case m.errorMessage != "":
		line = styles.StatusError.Render(m.errorMessage)
	case m.infoMessage != "":
		line = styles.StatusInfo.Render(m.infoMessage)
	default:
		return ""
	}
	return util.TruncateANSI(line, m.width)
}

func (m Model) renderHelpBar() string {
	bindings := []struct{ key, desc string }{
		{"space", "pause"},
		{"a", "add"},
		{"d", "remove"},
		{"c", "clear"},
		{"e", "export"},
		{"f", "follow"},
		{"i", "interval"},
		{"tab", "filter"},
		{"q", "quit"},
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, styles.HelpKey.Render(b.key)+" "+styles.HelpBar.Render(b.desc))
	}
	return styles.HelpBar.Render(strings.Join(parts, "  "))
}
