package workout

import (
	"strings"

	"github.com/julianstephens/liftlog/internal/models"
)

// A routine draft is a scratch workout in the workout list used to compose
// a routine before saving it. It never becomes current and is left out of
// History.

// StartRoutineDraft begins an empty draft, discarding any previous one.
func (s *Store) StartRoutineDraft(name string) models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.newWorkout(name, DefaultRoutineName)
	s.replaceDraft(w, "")
	return w.Clone()
}

// CreateDraftFromWorkout starts a draft copying the exercises and sets of
// an existing workout under fresh ids, with set completion reset.
func (s *Store) CreateDraftFromWorkout(workoutID string) (models.Workout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.findLocked(workoutID)
	if !ok {
		return models.Workout{}, false
	}

	w := s.newWorkout(src.Name, DefaultRoutineName)
	w.Exercises = s.exercisesFromTemplate(models.TemplateFromWorkout(src))
	for i, e := range src.Exercises {
		for j, set := range e.Sets {
			w.Exercises[i].Sets[j].Type = set.Type
		}
	}
	s.replaceDraft(w, "")
	return w.Clone(), true
}

// EditTemplateAsDraft starts a draft from a routine. Committing it replaces
// that routine in place.
func (s *Store) EditTemplateAsDraft(templateID string) (models.Workout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.templates.Get()
	i := indexOf(list, templateID, idOfTemplate)
	if i < 0 {
		return models.Workout{}, false
	}
	tpl := list[i]

	w := s.newWorkout(tpl.Name, DefaultRoutineName)
	w.Exercises = s.exercisesFromTemplate(tpl)
	s.replaceDraft(w, tpl.ID)
	return w.Clone(), true
}

// CommitRoutineDraft turns the draft into a routine and removes the draft
// workout. A draft opened with EditTemplateAsDraft keeps the edited
// routine's id and position; any other draft is appended as a new routine.
func (s *Store) CommitRoutineDraft() (models.WorkoutTemplate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draft.Get()
	if d == nil {
		return models.WorkoutTemplate{}, false
	}
	draft, ok := s.findLocked(d.ID)
	if !ok {
		return models.WorkoutTemplate{}, false
	}

	tpl := models.TemplateFromWorkout(draft)
	if strings.TrimSpace(tpl.Name) == "" {
		tpl.Name = DefaultRoutineName
	}

	editing := s.draftTemplateID
	if editing != "" {
		tpl.ID = editing
		if !s.replaceTemplate(tpl) {
			editing = ""
		}
	}
	if editing == "" {
		tpl.ID = s.newID()
		s.commitTemplates(append(cloneTemplates(s.templates.Get()), tpl))
	}

	s.dropDraft(draft.ID)
	return tpl.Clone(), true
}

// DiscardRoutineDraft deletes the draft workout without saving a routine.
func (s *Store) DiscardRoutineDraft() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draft.Get()
	if d == nil {
		return false
	}
	s.dropDraft(d.ID)
	return true
}

func (s *Store) findLocked(id string) (models.Workout, bool) {
	list := s.workouts.Get()
	if i := indexOf(list, id, idOfWorkout); i >= 0 {
		return list[i].Clone(), true
	}
	return models.Workout{}, false
}

// replaceDraft removes the previous draft workout, appends w and selects
// it as the draft.
func (s *Store) replaceDraft(w models.Workout, editing string) {
	next := cloneWorkouts(s.workouts.Get())
	if old := s.draft.Get(); old != nil {
		next, _ = without(next, old.ID, idOfWorkout)
	}
	next = append(next, w)

	s.workouts.Set(next)
	s.current.Set(lookup(next, s.current.Get()))
	s.draftTemplateID = editing
	s.draft.Set(lookup(next, &w))
	s.persistWorkouts(next)
	s.persistSession()
}

func (s *Store) dropDraft(id string) {
	next, _ := without(cloneWorkouts(s.workouts.Get()), id, idOfWorkout)
	s.draftTemplateID = ""
	s.commitWorkouts(next)
}
