package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/liftlog/internal/tui/components/routinelist"
	"github.com/julianstephens/liftlog/internal/tui/components/workoutlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(storeChangedMsg); ok {
		m.refresh()
		return m, waitForChange(m.changes)
	}
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil
	}

	switch m.state {
	case StateNewWorkout:
		return m.updateNewWorkout(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case workoutlist.DeleteWorkoutMsg:
		m.pendingDelete = &deleteTarget{id: msg.ID, name: msg.Name}
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil

	case workoutlist.ResumeWorkoutMsg:
		if m.store.SetCurrentWorkout(msg.ID) {
			m.status = "Resumed workout"
			m.state = StateDashboard
		}
		m.refresh()
		return m, nil

	case workoutlist.SaveRoutineMsg:
		if w, ok := m.store.FindWorkout(msg.ID); ok {
			tpl := m.store.SaveAsTemplate(w)
			m.status = fmt.Sprintf("Saved routine %q", tpl.Name)
		}
		m.refresh()
		return m, nil

	case routinelist.StartRoutineMsg:
		w := m.store.CreateWorkoutFromTemplate(msg.Routine)
		m.status = fmt.Sprintf("Started %q", w.Name)
		m.state = StateDashboard
		m.refresh()
		return m, nil

	case routinelist.DeleteRoutineMsg:
		m.pendingDelete = &deleteTarget{routine: true, id: msg.ID, name: msg.Name}
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil

	case routinelist.MoveRoutineMsg:
		m.store.ReorderTemplates(msg.DraggedID, msg.TargetID)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.switchTab((m.state + 1) % tabCount)
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.switchTab((m.state - 1 + tabCount) % tabCount)
			return m, nil
		case key.Matches(msg, m.keys.JumpTab):
			if tab, ok := tabFor(msg.String()); ok {
				m.switchTab(tab)
			}
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.StartWorkout):
			m.form = m.newWorkoutForm()
			m.previousState = m.state
			m.state = StateNewWorkout
			return m, m.form.Init()
		case key.Matches(msg, m.keys.FinishWorkout):
			if cur := m.store.CurrentWorkout().Get(); cur != nil {
				m.store.CompleteWorkout(cur.ID)
				m.status = fmt.Sprintf("Finished %q", cur.Name)
				m.refresh()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case StateWorkouts:
		m.workouts, cmd = m.workouts.Update(msg)
	case StateRoutines:
		m.routines, cmd = m.routines.Update(msg)
	}
	return m, cmd
}

func (m Model) updateNewWorkout(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.createWorkout()
		m.state = StateDashboard
		m.refresh()
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m *Model) createWorkout() {
	in := m.newWorkout
	name := strings.TrimSpace(in.Name)

	created := false
	if in.RoutineID != "" {
		if tpl, ok := m.store.FindTemplate(in.RoutineID); ok {
			if name != "" {
				tpl.Name = name
			}
			w := m.store.CreateWorkoutFromTemplate(tpl)
			m.status = fmt.Sprintf("Started %q", w.Name)
			created = true
		}
	}
	if !created {
		w := m.store.CreateWorkout(name)
		m.status = fmt.Sprintf("Started %q", w.Name)
	}

	if ex := strings.TrimSpace(in.Exercise); ex != "" {
		if cur := m.store.CurrentWorkout().Get(); cur != nil {
			m.store.AddExerciseToWorkout(cur.ID, ex)
		}
	}
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		if t := m.pendingDelete; t != nil {
			if t.routine {
				m.store.DeleteTemplate(t.id)
			} else {
				m.store.DeleteWorkout(t.id)
			}
			m.status = fmt.Sprintf("Deleted %q", t.name)
		}
		m.pendingDelete = nil
		m.state = m.previousState
		m.refresh()
	case "n", "N", "esc", "q":
		m.pendingDelete = nil
		m.state = m.previousState
	}
	return m, nil
}

func (m Model) filtering() bool {
	switch m.state {
	case StateWorkouts:
		return m.workouts.Filtering()
	case StateRoutines:
		return m.routines.Filtering()
	}
	return false
}

func (m *Model) resize() {
	h := m.height - 4
	if h < 0 {
		h = 0
	}
	w := m.width - 4
	if w < 0 {
		w = 0
	}
	m.dashboard.SetSize(w, h)
	m.workouts.SetSize(w, h)
	m.routines.SetSize(w, h)
}

func (m *Model) switchTab(s SessionState) {
	m.state = s
	m.status = ""
}
