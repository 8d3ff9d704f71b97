package workoutlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/utils"
)

type DeleteWorkoutMsg struct {
	ID   string
	Name string
}

type ResumeWorkoutMsg struct {
	ID string
}

type SaveRoutineMsg struct {
	ID string
}

type Item struct {
	Workout models.Workout
	Unit    string
}

func (i Item) Title() string {
	if !i.Workout.Completed {
		return i.Workout.Name + " (unfinished)"
	}
	return i.Workout.Name
}

func (i Item) Description() string {
	w := i.Workout
	desc := fmt.Sprintf("%s | %d exercises | %d sets | %s",
		w.Date.Local().Format(constants.DateTimeFormat), len(w.Exercises), w.SetCount(), utils.FormatVolume(w.Volume(), i.Unit))
	if w.Duration != nil {
		desc += " | " + utils.FormatDuration(*w.Duration)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Workout.Name }

type KeyMap struct {
	Delete key.Binding
	Resume key.Binding
	Save   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Resume: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resume"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save as routine"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
	unit string
}

func New(workouts []models.Workout, unit string, width, height int) Model {
	l := list.New(toItems(workouts, unit), list.NewDefaultDelegate(), width, height)
	l.Title = "Workouts"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Delete, keys.Resume, keys.Save}
	}

	return Model{list: l, keys: keys, unit: unit}
}

func toItems(workouts []models.Workout, unit string) []list.Item {
	items := make([]list.Item, len(workouts))
	for i, w := range workouts {
		items[i] = Item{Workout: w, Unit: unit}
	}
	return items
}

func (m *Model) SetWorkouts(workouts []models.Workout) {
	m.list.SetItems(toItems(workouts, m.unit))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if i, ok := m.list.SelectedItem().(Item); ok {
			switch {
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteWorkoutMsg{ID: i.Workout.ID, Name: i.Workout.Name} }
			case key.Matches(msg, m.keys.Resume):
				return m, func() tea.Msg { return ResumeWorkoutMsg{ID: i.Workout.ID} }
			case key.Matches(msg, m.keys.Save):
				return m, func() tea.Msg { return SaveRoutineMsg{ID: i.Workout.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No workouts logged yet.\n  Press 'n' to start one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
