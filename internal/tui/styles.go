package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	sidebarStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555")).Padding(0, 1)
	threadStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555")).Padding(0, 1)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff8"))
	unreadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fff")).Background(lipgloss.Color("#d33")).Padding(0, 1)
	meStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff8"))
	otherStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#45f"))
	forwardStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#888"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f55"))
)
