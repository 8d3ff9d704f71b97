package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#B69CFF"}
	muted   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#626262"}
	success = lipgloss.AdaptiveColor{Light: "#1F8A4C", Dark: "#50FA7B"}
	caution = lipgloss.AdaptiveColor{Light: "#B26B00", Dark: "#FFB86C"}
	alarm   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF5555"}

	tabBorder = lipgloss.RoundedBorder()

	tabStyle = lipgloss.NewStyle().
			Border(tabBorder, true, true, false, true).
			BorderForeground(muted).
			Foreground(muted).
			Padding(0, 2)

	currentTabStyle = tabStyle.
			BorderForeground(accent).
			Foreground(accent).
			Bold(true)

	frameStyle = lipgloss.NewStyle().Padding(1, 2)

	statusStyle  = lipgloss.NewStyle().Foreground(success)
	warningStyle = lipgloss.NewStyle().Foreground(caution).PaddingLeft(2)
	dangerStyle  = lipgloss.NewStyle().Foreground(alarm).Bold(true)
)

var tabTitles = [tabCount]string{"1 Dashboard", "2 Workouts", "3 Routines"}
