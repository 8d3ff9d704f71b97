package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/liftlog/internal/catalog"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/tui/components/dashboard"
	"github.com/julianstephens/liftlog/internal/tui/components/routinelist"
	"github.com/julianstephens/liftlog/internal/tui/components/workoutlist"
	"github.com/julianstephens/liftlog/internal/validation"
	"github.com/julianstephens/liftlog/internal/workout"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StateWorkouts
	StateRoutines
	StateNewWorkout
	StateConfirmDelete
)

// tabCount is the number of states reachable with tab.
const tabCount = 3

type NewWorkoutForm struct {
	Name      string
	RoutineID string
	Exercise  string
}

type deleteTarget struct {
	routine bool
	id      string
	name    string
}

// storeChangedMsg is sent after the store publishes new state.
type storeChangedMsg struct{}

type Model struct {
	store   *workout.Store
	catalog *catalog.Catalog
	unit    string

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	dashboard dashboard.Model
	workouts  workoutlist.Model
	routines  routinelist.Model

	form          *huh.Form
	newWorkout    *NewWorkoutForm
	pendingDelete *deleteTarget

	status            string
	validationWarning string

	changes     chan struct{}
	unsubscribe []func()

	quitting bool
	width    int
	height   int
}

// NewModel builds the TUI over store. The model subscribes to the store's
// views; subscribers only signal a buffered channel so a publication never
// waits on the UI.
func NewModel(store *workout.Store, cat *catalog.Catalog, unit string) Model {
	changes := make(chan struct{}, 1)
	m := Model{
		store:     store,
		catalog:   cat,
		unit:      unit,
		state:     StateDashboard,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		dashboard: dashboard.New(unit, 0, 0),
		workouts:  workoutlist.New(nil, unit, 0, 0),
		routines:  routinelist.New(nil, 0, 0),
		changes:   changes,
	}

	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	m.unsubscribe = []func(){
		store.Workouts().Subscribe(func([]models.Workout) { notify() }),
		store.Templates().Subscribe(func([]models.WorkoutTemplate) { notify() }),
		store.CurrentWorkout().Subscribe(func(*models.Workout) { notify() }),
	}

	m.refresh()
	return m
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Close removes the store subscriptions.
func (m *Model) Close() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
}

// refresh pulls the current state of every view into the components.
func (m *Model) refresh() {
	m.dashboard.SetData(m.store.Stats().Get(), m.store.RecentWorkouts(constants.DefaultRecentWorkouts), m.store.CurrentWorkout().Get())
	m.workouts.SetWorkouts(m.store.History())
	m.routines.SetRoutines(m.store.Templates().Get())
	m.updateValidationStatus()
}

func (m *Model) updateValidationStatus() {
	snap := validation.Snapshot{
		Workouts:  m.store.Workouts().Get(),
		Templates: m.store.Templates().Get(),
	}
	result := validation.New().Validate(snap)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s), run 'liftlog doctor'", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) newWorkoutForm() *huh.Form {
	m.newWorkout = &NewWorkoutForm{Name: constants.DefaultWorkoutName}

	options := []huh.Option[string]{huh.NewOption("Empty workout", "")}
	for _, t := range m.store.Templates().Get() {
		options = append(options, huh.NewOption(t.Name, t.ID))
	}

	var suggestions []string
	if m.catalog != nil {
		for _, e := range m.catalog.All() {
			suggestions = append(suggestions, e.Name)
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.newWorkout.Name),
			huh.NewSelect[string]().
				Title("Start from").
				Options(options...).
				Value(&m.newWorkout.RoutineID),
			huh.NewInput().
				Title("First exercise (optional)").
				Suggestions(suggestions).
				Value(&m.newWorkout.Exercise),
		),
	)
}
