package tui

import "github.com/charmbracelet/lipgloss"

var (
	white = lipgloss.Color("#E2E2E2")
	gray  = lipgloss.Color("#888888")
	muted = lipgloss.Color("#555555")
	blue  = lipgloss.Color("#5FAFFF")

	green  = lipgloss.Color("#5FD787")
	yellow = lipgloss.Color("#FFD787")
	red    = lipgloss.Color("#FF8787")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(white)
	subtitleStyle = lipgloss.NewStyle().Foreground(gray)
	mutedStyle    = lipgloss.NewStyle().Foreground(muted)
	cursorStyle   = lipgloss.NewStyle().Foreground(blue).Bold(true)

	successStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(yellow).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
)
