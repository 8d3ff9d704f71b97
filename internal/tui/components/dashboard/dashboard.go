package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/utils"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	stats    models.Stats
	recent   []models.Workout
	current  *models.Workout
	unit     string
	now      func() time.Time
}

func New(unit string, width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		unit:     unit,
		now:      time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

// SetData replaces what the dashboard shows.
func (m *Model) SetData(stats models.Stats, recent []models.Workout, current *models.Workout) {
	m.stats = stats
	m.recent = recent
	m.current = current
	m.render()
}

func (m *Model) render() {
	var b strings.Builder
	now := m.now()

	b.WriteString(headingStyle.Render(fmt.Sprintf("Good %s", strings.ToLower(utils.TimeOfDay(now)))))
	b.WriteString("\n\n")

	if m.current != nil {
		c := m.current
		b.WriteString(headingStyle.Render("In progress"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s  %s  %d exercises, %d sets, %s\n",
			valueStyle.Render(c.Name),
			mutedStyle.Render(utils.FormatDuration(int(now.Sub(c.StartTime).Minutes()))),
			len(c.Exercises), c.SetCount(), utils.FormatVolume(c.Volume(), m.unit))
		b.WriteString(mutedStyle.Render("press f to finish"))
		b.WriteString("\n\n")
	}

	b.WriteString(headingStyle.Render("Totals"))
	b.WriteString("\n")
	rows := []struct{ label, value string }{
		{"Workouts", fmt.Sprintf("%d", m.stats.TotalWorkouts)},
		{"Exercises", fmt.Sprintf("%d", m.stats.TotalExercises)},
		{"Sets", fmt.Sprintf("%d", m.stats.TotalSets)},
		{"Volume", utils.FormatVolume(m.stats.TotalVolume, m.unit)},
		{"Avg. duration", utils.FormatDuration(int(math.Round(m.stats.AverageDuration)))},
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Recent"))
	b.WriteString("\n")
	if len(m.recent) == 0 {
		b.WriteString(mutedStyle.Render("No workouts yet. Press n to start one."))
		b.WriteString("\n")
	}
	for _, w := range m.recent {
		b.WriteString(labelStyle.Render(utils.FormatWorkoutDate(w.Date, now)))
		fmt.Fprintf(&b, "%s  %s\n", w.Name,
			mutedStyle.Render(fmt.Sprintf("%d sets, %s", w.SetCount(), utils.FormatVolume(w.Volume(), m.unit))))
	}

	m.viewport.SetContent(b.String())
}
