package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7C3AED")
	upColor      = lipgloss.Color("#10B981")
	downColor    = lipgloss.Color("#EF4444")
	newsColor    = lipgloss.Color("#F59E0B")
	mutedColor   = lipgloss.Color("#6B7280")
	borderColor  = lipgloss.Color("#374151")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Background(borderColor)

	upStyle    = lipgloss.NewStyle().Foreground(upColor)
	downStyle  = lipgloss.NewStyle().Foreground(downColor)
	newsStyle  = lipgloss.NewStyle().Bold(true).Foreground(newsColor)
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().Foreground(downColor)
)

// priceStyle colors a price by its move against the previous close.
func priceStyle(prev, cur float64) lipgloss.Style {
	switch {
	case cur > prev:
		return upStyle
	case cur < prev:
		return downStyle
	default:
		return lipgloss.NewStyle()
	}
}
