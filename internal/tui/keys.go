package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/julianstephens/liftlog/internal/tui/components/routinelist"
	"github.com/julianstephens/liftlog/internal/tui/components/workoutlist"
)

// KeyMap holds the bindings handled by the root model. Each list tab adds
// its own on top.
type KeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	// JumpTab selects a tab by number: 1 dashboard, 2 workouts, 3 routines.
	JumpTab       key.Binding
	StartWorkout  key.Binding
	FinishWorkout key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab:       bind("tab", "next tab", "tab"),
		PrevTab:       bind("shift+tab", "prev tab", "shift+tab"),
		JumpTab:       bind("1-3", "go to tab", "1", "2", "3"),
		StartWorkout:  bind("n", "start workout", "n"),
		FinishWorkout: bind("f", "finish workout", "f"),
		Help:          bind("?", "more keys", "?"),
		Quit:          bind("q", "quit", "q", "ctrl+c"),
	}
}

// OpenTab selects the starting tab by name.
func (m *Model) OpenTab(name string) error {
	for i, title := range tabTitles {
		if strings.EqualFold(strings.Fields(title)[1], name) {
			m.state = SessionState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tab %q", name)
}

// tabFor maps a JumpTab key to its state.
func tabFor(k string) (SessionState, bool) {
	switch k {
	case "1":
		return StateDashboard, true
	case "2":
		return StateWorkouts, true
	case "3":
		return StateRoutines, true
	}
	return 0, false
}

func (m Model) ShortHelp() []key.Binding {
	short := []key.Binding{m.keys.NextTab, m.keys.StartWorkout}
	if m.store.CurrentWorkout().Get() != nil {
		short = append(short, m.keys.FinishWorkout)
	}
	return append(short, m.keys.Help, m.keys.Quit)
}

func (m Model) FullHelp() [][]key.Binding {
	cols := [][]key.Binding{
		{m.keys.NextTab, m.keys.PrevTab, m.keys.JumpTab},
		{m.keys.StartWorkout, m.keys.FinishWorkout},
	}
	switch m.state {
	case StateWorkouts:
		wk := workoutlist.DefaultKeyMap()
		cols = append(cols, []key.Binding{wk.Resume, wk.Save, wk.Delete})
	case StateRoutines:
		rk := routinelist.DefaultKeyMap()
		cols = append(cols, []key.Binding{rk.Start, rk.MoveUp, rk.MoveDown, rk.Delete})
	}
	return append(cols, []key.Binding{m.keys.Help, m.keys.Quit})
}
