package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorDanger  = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}

	appStyle   = lipgloss.NewStyle().Padding(1, 2)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	stepStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle = lipgloss.NewStyle().Width(22)
	focusStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(colorDanger)
	helpStyle  = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)
	rangeStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
)

var resultBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 3).
	MarginTop(1)
