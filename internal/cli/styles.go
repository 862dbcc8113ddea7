package cli

import "github.com/charmbracelet/lipgloss"

var (
	GoodColor    = lipgloss.Color("#10B981")
	WarningColor = lipgloss.Color("#F59E0B")
	MutedColor   = lipgloss.Color("#6B7280")
	BorderColor  = lipgloss.Color("#374151")

	TitleStyle   = lipgloss.NewStyle().Bold(true)
	GoodStyle    = lipgloss.NewStyle().Foreground(GoodColor).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	LabelStyle   = lipgloss.NewStyle().Foreground(MutedColor).Width(14)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)
)
