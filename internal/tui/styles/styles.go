package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Latency severity colors
	LatencyGood = lipgloss.Color("#10B981") // Green, under 50ms
	LatencyFair = lipgloss.Color("#F59E0B") // Amber, under 150ms
	LatencyPoor = lipgloss.Color("#F87171") // Red, 150ms and up

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// Sidebar host entries
	HostSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 1)

	HostNormal = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 1)

	HostStats = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	// Panels
	SidebarBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	ContentBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	// Status line
	StatusInfo = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	StatusError = lipgloss.NewStyle().
			Foreground(ErrorColor)

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(WarningColor)
)

// ForLatency returns the severity color for a latency value in milliseconds.
func ForLatency(ms float64) lipgloss.Color {
	switch {
	case ms < 50:
		return LatencyGood
	case ms < 150:
		return LatencyFair
	default:
		return LatencyPoor
	}
}
