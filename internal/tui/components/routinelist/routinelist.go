package routinelist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/liftlog/internal/models"
)

type StartRoutineMsg struct {
	Routine models.WorkoutTemplate
}

type DeleteRoutineMsg struct {
	ID   string
	Name string
}

// MoveRoutineMsg asks to move the routine DraggedID to TargetID's position.
type MoveRoutineMsg struct {
	DraggedID string
	TargetID  string
}

type Item struct {
	Routine models.WorkoutTemplate
}

func (i Item) Title() string { return i.Routine.Name }

func (i Item) Description() string {
	desc := fmt.Sprintf("%d exercises | %d sets", len(i.Routine.Exercises), i.Routine.SetCount())
	if len(i.Routine.Exercises) > 0 {
		desc += " | " + i.Routine.Exercises[0].Name
		if len(i.Routine.Exercises) > 1 {
			desc += ", …"
		}
	}
	return desc
}

func (i Item) FilterValue() string { return i.Routine.Name }

type KeyMap struct {
	Start    key.Binding
	Delete   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter", "start"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("shift+↑", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("shift+↓", "move down"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(routines []models.WorkoutTemplate, width, height int) Model {
	l := list.New(toItems(routines), list.NewDefaultDelegate(), width, height)
	l.Title = "Routines"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Start, keys.Delete, keys.MoveUp, keys.MoveDown}
	}

	return Model{list: l, keys: keys}
}

func toItems(routines []models.WorkoutTemplate) []list.Item {
	items := make([]list.Item, len(routines))
	for i, r := range routines {
		items[i] = Item{Routine: r}
	}
	return items
}

// SetRoutines replaces the items, keeping the selection on the same
// routine when it still exists.
func (m *Model) SetRoutines(routines []models.WorkoutTemplate) {
	selected := ""
	if i, ok := m.list.SelectedItem().(Item); ok {
		selected = i.Routine.ID
	}
	m.list.SetItems(toItems(routines))
	for idx, r := range routines {
		if r.ID == selected {
			m.list.Select(idx)
			break
		}
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if i, ok := m.list.SelectedItem().(Item); ok {
			idx := m.list.Index()
			switch {
			case key.Matches(msg, m.keys.Start):
				return m, func() tea.Msg { return StartRoutineMsg{Routine: i.Routine} }
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteRoutineMsg{ID: i.Routine.ID, Name: i.Routine.Name} }
			case key.Matches(msg, m.keys.MoveUp):
				return m, m.move(i, idx-1)
			case key.Matches(msg, m.keys.MoveDown):
				return m, m.move(i, idx+1)
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) move(i Item, to int) tea.Cmd {
	items := m.list.Items()
	if to < 0 || to >= len(items) {
		return nil
	}
	target, ok := items[to].(Item)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return MoveRoutineMsg{DraggedID: i.Routine.ID, TargetID: target.Routine.ID}
	}
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No routines saved.\n  Press 's' on a workout to save it as a routine."
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
