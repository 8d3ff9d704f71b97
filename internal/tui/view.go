package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case StateDashboard:
		body = m.dashboard.View()
	case StateWorkouts:
		body = m.workouts.View()
	case StateRoutines:
		body = m.routines.View()
	case StateNewWorkout:
		body = m.form.View()
	case StateConfirmDelete:
		return lipgloss.JoinVertical(lipgloss.Left, m.tabBar(), m.confirmDialog())
	}

	parts := []string{m.tabBar(), frameStyle.Render(body)}
	if m.status != "" {
		parts = append(parts, statusStyle.Render("✓ "+m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// tabBar highlights the current tab; overlays keep the tab they opened from.
func (m Model) tabBar() string {
	current := m.state
	if current >= tabCount {
		current = m.previousState
	}

	rendered := make([]string, 0, tabCount+1)
	for i, title := range tabTitles {
		style := tabStyle
		if SessionState(i) == current {
			style = currentTabStyle
		}
		rendered = append(rendered, style.Render(title))
	}
	if m.validationWarning != "" {
		rendered = append(rendered, warningStyle.Render(m.validationWarning))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, rendered...)
}

func (m Model) confirmDialog() string {
	if m.pendingDelete == nil {
		return ""
	}
	kind := "workout"
	if m.pendingDelete.routine {
		kind = "routine"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(alarm).
		Padding(1, 3).
		Render(strings.Join([]string{
			dangerStyle.Render(fmt.Sprintf("Delete %s %q?", kind, m.pendingDelete.name)),
			"",
			"y  delete    n/esc  keep",
		}, "\n"))

	return lipgloss.Place(m.width, max(m.height-4, lipgloss.Height(box)), lipgloss.Center, lipgloss.Center, box)
}
