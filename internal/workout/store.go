// Package workout owns the in-memory workout and routine state, publishes
// it through reactive views and writes every change through to a
// storage.Provider.
package workout

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/reactive"
	"github.com/julianstephens/liftlog/internal/storage"
)

// DefaultRoutineName names drafts started without a name.
const DefaultRoutineName = "New Routine"

// session is the persisted selection state.
type session struct {
	CurrentWorkoutID string `json:"currentWorkoutId,omitempty"`
	RoutineDraftID   string `json:"routineDraftId,omitempty"`
	DraftTemplateID  string `json:"draftTemplateId,omitempty"`
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// Store holds workouts, routines, the current workout and the routine draft.
//
// Published slices and pointers are never modified after publication;
// every mutation builds a new list. Subscribers are notified synchronously
// while the store's write lock is held, so they must not call mutating
// Store methods from inside the callback.
type Store struct {
	provider storage.Provider
	now      func() time.Time
	newID    func() string

	mu              sync.Mutex
	workouts        *reactive.Cell[[]models.Workout]
	templates       *reactive.Cell[[]models.WorkoutTemplate]
	current         *reactive.Cell[*models.Workout]
	draft           *reactive.Cell[*models.Workout]
	draftTemplateID string
	stats           *reactive.Computed[models.Stats]

	errMu      sync.Mutex
	persistErr error
}

// NewStore builds a store and loads its state from provider. Unreadable or
// malformed data is logged and replaced by empty state.
func NewStore(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider:  provider,
		now:       time.Now,
		newID:     uuid.NewString,
		workouts:  reactive.NewCell([]models.Workout{}),
		templates: reactive.NewCell([]models.WorkoutTemplate{}),
		current:   reactive.NewCell[*models.Workout](nil),
		draft:     reactive.NewCell[*models.Workout](nil),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.stats = reactive.NewComputed(func() models.Stats {
		return models.ComputeStats(withoutDraft(s.workouts.Get(), s.draft.Get()))
	}, reactive.Watch[[]models.Workout](s.workouts), reactive.Watch[*models.Workout](s.draft))

	s.load()
	return s
}

// Close detaches derived views. The provider is owned by the caller.
func (s *Store) Close() {
	s.stats.Stop()
}

func (s *Store) Workouts() reactive.View[[]models.Workout]          { return s.workouts.ReadOnly() }
func (s *Store) Templates() reactive.View[[]models.WorkoutTemplate] { return s.templates.ReadOnly() }
func (s *Store) CurrentWorkout() reactive.View[*models.Workout]     { return s.current.ReadOnly() }
func (s *Store) RoutineDraft() reactive.View[*models.Workout]       { return s.draft.ReadOnly() }
func (s *Store) Stats() reactive.View[models.Stats]                 { return s.stats }

// DraftTemplateID is the routine the current draft edits, or "".
func (s *Store) DraftTemplateID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftTemplateID
}

// PersistErr returns the most recent failure to write state to storage.
// Mutations never return it; the in-memory state stays authoritative.
func (s *Store) PersistErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.persistErr
}

// Reload replaces the in-memory state with what the provider holds.
func (s *Store) Reload() {
	s.load()
}

// --- lookups ---

func (s *Store) FindWorkout(id string) (models.Workout, bool) {
	list := s.workouts.Get()
	if i := indexOf(list, id, idOfWorkout); i >= 0 {
		return list[i].Clone(), true
	}
	return models.Workout{}, false
}

func (s *Store) FindTemplate(id string) (models.WorkoutTemplate, bool) {
	list := s.templates.Get()
	if i := indexOf(list, id, idOfTemplate); i >= 0 {
		return list[i].Clone(), true
	}
	return models.WorkoutTemplate{}, false
}

// History returns every workout except the current one and the routine
// draft, newest first.
func (s *Store) History() []models.Workout {
	exclude := map[string]bool{}
	if cur := s.current.Get(); cur != nil {
		exclude[cur.ID] = true
	}
	if d := s.draft.Get(); d != nil {
		exclude[d.ID] = true
	}

	var out []models.Workout
	for _, w := range s.workouts.Get() {
		if !exclude[w.ID] {
			out = append(out, w.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// RecentWorkouts returns at most n workouts from History.
func (s *Store) RecentWorkouts(n int) []models.Workout {
	h := s.History()
	if n >= 0 && len(h) > n {
		h = h[:n]
	}
	return h
}

// --- workouts ---

// CreateWorkout appends an empty workout and makes it current.
func (s *Store) CreateWorkout(name string) models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.newWorkout(name, constants.DefaultWorkoutName)
	s.commitWorkouts(append(cloneWorkouts(s.workouts.Get()), w))
	s.selectCurrent(&w)
	return w.Clone()
}

// CreateWorkoutFromTemplate appends a workout built from tpl with fresh
// exercise and set ids and makes it current.
func (s *Store) CreateWorkoutFromTemplate(tpl models.WorkoutTemplate) models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.newWorkout(tpl.Name, constants.DefaultWorkoutName)
	w.Exercises = s.exercisesFromTemplate(tpl)
	s.commitWorkouts(append(cloneWorkouts(s.workouts.Get()), w))
	s.selectCurrent(&w)
	return w.Clone()
}

// UpdateWorkout replaces the stored workout that has w's id.
func (s *Store) UpdateWorkout(w models.Workout) bool {
	if err := w.Validate(); err != nil {
		logger.Warn("Rejected workout update", "workout", w.ID, "error", err)
		return false
	}
	return s.mutateWorkout(w.ID, func(stored *models.Workout) bool {
		*stored = w.Clone()
		return true
	})
}

// DeleteWorkout removes the workout, clearing current and draft if they
// referenced it.
func (s *Store) DeleteWorkout(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := without(cloneWorkouts(s.workouts.Get()), id, idOfWorkout)
	if !ok {
		return false
	}
	s.commitWorkouts(next)
	return true
}

// SetCurrentWorkout selects an existing workout as current. The routine
// draft cannot be selected.
func (s *Store) SetCurrentWorkout(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.workouts.Get()
	i := indexOf(list, id, idOfWorkout)
	if i < 0 || s.isDraft(id) {
		return false
	}
	w := list[i].Clone()
	s.selectCurrent(&w)
	return true
}

func (s *Store) ClearCurrentWorkout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Get() == nil {
		return
	}
	s.selectCurrent(nil)
}

// CompleteWorkout stamps the end time and duration and marks the workout
// completed. A completed workout stops being current. Completing an
// already completed workout or the routine draft is a no-op.
func (s *Store) CompleteWorkout(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isDraft(id) {
		return false
	}

	now := s.now()
	next := cloneWorkouts(s.workouts.Get())
	i := indexOf(next, id, idOfWorkout)
	if i < 0 || next[i].Completed {
		return false
	}

	w := &next[i]
	w.Completed = true
	w.EndTime = &now
	minutes := int(math.Round(now.Sub(w.StartTime).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	w.Duration = &minutes

	s.commitWorkouts(next)
	if cur := s.current.Get(); cur != nil && cur.ID == id {
		s.selectCurrent(nil)
	}
	return true
}

// --- exercises ---

// AddExerciseToWorkout appends an exercise with no sets.
func (s *Store) AddExerciseToWorkout(workoutID, name string) (models.Exercise, bool) {
	ex := models.Exercise{
		ID:   s.newID(),
		Name: strings.TrimSpace(name),
		Sets: []models.Set{},
	}
	ok := s.mutateWorkout(workoutID, func(w *models.Workout) bool {
		w.Exercises = append(w.Exercises, ex)
		return true
	})
	if !ok {
		return models.Exercise{}, false
	}
	return ex.Clone(), true
}

func (s *Store) RemoveExerciseFromWorkout(workoutID, exerciseID string) bool {
	return s.mutateWorkout(workoutID, func(w *models.Workout) bool {
		next, ok := without(w.Exercises, exerciseID, idOfExercise)
		w.Exercises = next
		return ok
	})
}

// ReplaceExerciseInWorkout renames an exercise, keeping its id and sets.
func (s *Store) ReplaceExerciseInWorkout(workoutID, exerciseID, newName string) bool {
	return s.mutateWorkout(workoutID, func(w *models.Workout) bool {
		i := w.FindExercise(exerciseID)
		if i < 0 {
			return false
		}
		w.Exercises[i].Name = strings.TrimSpace(newName)
		return true
	})
}

// ReorderExercises moves the dragged exercise to the target's index.
func (s *Store) ReorderExercises(workoutID, draggedID, targetID string) bool {
	return s.mutateWorkout(workoutID, func(w *models.Workout) bool {
		next, ok := splice(w.Exercises, draggedID, targetID, idOfExercise)
		w.Exercises = next
		return ok
	})
}

// --- sets ---

// AddSetToExercise appends a set with zero reps and weight.
func (s *Store) AddSetToExercise(workoutID, exerciseID string) (models.Set, bool) {
	set := models.Set{ID: s.newID()}
	ok := s.mutateWorkout(workoutID, func(w *models.Workout) bool {
		i := w.FindExercise(exerciseID)
		if i < 0 {
			return false
		}
		w.Exercises[i].Sets = append(w.Exercises[i].Sets, set)
		return true
	})
	if !ok {
		return models.Set{}, false
	}
	return set, true
}

// UpdateSet replaces the set with set.ID. Sets that fail validation are
// rejected.
func (s *Store) UpdateSet(workoutID, exerciseID string, set models.Set) bool {
	if err := set.Validate(); err != nil {
		logger.Warn("Rejected set update", "set", set.ID, "error", err)
		return false
	}
	return s.mutateWorkout(workoutID, func(w *models.Workout) bool {
		i := w.FindExercise(exerciseID)
		if i < 0 {
			return false
		}
		j := w.Exercises[i].FindSet(set.ID)
		if j < 0 {
			return false
		}
		w.Exercises[i].Sets[j] = set
		return true
	})
}

func (s *Store) RemoveSetFromExercise(workoutID, exerciseID, setID string) bool {
	return s.mutateWorkout(workoutID, func(w *models.Workout) bool {
		i := w.FindExercise(exerciseID)
		if i < 0 {
			return false
		}
		next, ok := without(w.Exercises[i].Sets, setID, idOfSet)
		w.Exercises[i].Sets = next
		return ok
	})
}

// --- templates ---

// SaveAsTemplate appends a routine built from w.
func (s *Store) SaveAsTemplate(w models.Workout) models.WorkoutTemplate {
	tpl := models.TemplateFromWorkout(w)
	tpl.ID = s.newID()
	s.SaveTemplateDirectly(tpl)
	return tpl.Clone()
}

// SaveTemplateDirectly appends tpl as-is. It gets a fresh id when it has
// none or its id is already taken.
func (s *Store) SaveTemplateDirectly(tpl models.WorkoutTemplate) models.WorkoutTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl = tpl.Clone()
	list := s.templates.Get()
	if tpl.ID == "" || indexOf(list, tpl.ID, idOfTemplate) >= 0 {
		tpl.ID = s.newID()
	}
	s.commitTemplates(append(cloneTemplates(list), tpl))
	return tpl.Clone()
}

// UpdateTemplate replaces the routine with tpl's id in place.
func (s *Store) UpdateTemplate(tpl models.WorkoutTemplate) bool {
	if err := tpl.Validate(); err != nil {
		logger.Warn("Rejected routine update", "routine", tpl.ID, "error", err)
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceTemplate(tpl)
}

func (s *Store) DeleteTemplate(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := without(cloneTemplates(s.templates.Get()), id, idOfTemplate)
	if !ok {
		return false
	}
	s.commitTemplates(next)
	if s.draftTemplateID == id {
		s.draftTemplateID = ""
		s.persistSession()
	}
	return true
}

// ReorderTemplates moves the dragged routine to the target's index.
func (s *Store) ReorderTemplates(draggedID, targetID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := splice(cloneTemplates(s.templates.Get()), draggedID, targetID, idOfTemplate)
	if !ok {
		return false
	}
	s.commitTemplates(next)
	return true
}

// --- internals ---

func (s *Store) newWorkout(name, fallback string) models.Workout {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallback
	}
	now := s.now()
	return models.Workout{
		ID:        s.newID(),
		Name:      name,
		Date:      now,
		StartTime: now,
		Exercises: []models.Exercise{},
	}
}

func (s *Store) exercisesFromTemplate(tpl models.WorkoutTemplate) []models.Exercise {
	exercises := make([]models.Exercise, len(tpl.Exercises))
	for i, et := range tpl.Exercises {
		sets := make([]models.Set, len(et.Sets))
		for j, st := range et.Sets {
			sets[j] = models.Set{ID: s.newID(), Reps: st.Reps, Weight: st.Weight}
		}
		exercises[i] = models.Exercise{ID: s.newID(), Name: et.Name, Sets: sets}
	}
	return exercises
}

// mutateWorkout applies fn to a copy of the workout with the given id and
// commits the new list when fn reports a change.
func (s *Store) mutateWorkout(id string, fn func(*models.Workout) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneWorkouts(s.workouts.Get())
	i := indexOf(next, id, idOfWorkout)
	if i < 0 {
		return false
	}
	if !fn(&next[i]) {
		return false
	}
	s.commitWorkouts(next)
	return true
}

// commitWorkouts publishes next, re-syncs current and draft from it and
// writes it through. Callers hold mu.
func (s *Store) commitWorkouts(next []models.Workout) {
	s.workouts.Set(next)
	s.resync(next)
	s.persistWorkouts(next)
	s.persistSession()
}

func (s *Store) commitTemplates(next []models.WorkoutTemplate) {
	s.templates.Set(next)
	s.persistTemplates(next)
}

func (s *Store) replaceTemplate(tpl models.WorkoutTemplate) bool {
	next := cloneTemplates(s.templates.Get())
	i := indexOf(next, tpl.ID, idOfTemplate)
	if i < 0 {
		return false
	}
	next[i] = tpl.Clone()
	s.commitTemplates(next)
	return true
}

func (s *Store) isDraft(id string) bool {
	d := s.draft.Get()
	return d != nil && d.ID == id
}

// withoutDraft returns list minus the routine draft. list is not modified.
func withoutDraft(list []models.Workout, draft *models.Workout) []models.Workout {
	if draft == nil {
		return list
	}
	out := make([]models.Workout, 0, len(list))
	for _, w := range list {
		if w.ID != draft.ID {
			out = append(out, w)
		}
	}
	return out
}

// resync points current and draft at their counterparts in list, or clears
// them when the workout is gone.
func (s *Store) resync(list []models.Workout) {
	s.current.Set(lookup(list, s.current.Get()))

	d := lookup(list, s.draft.Get())
	if d == nil {
		s.draftTemplateID = ""
	}
	s.draft.Set(d)
}

func lookup(list []models.Workout, sel *models.Workout) *models.Workout {
	if sel == nil {
		return nil
	}
	i := indexOf(list, sel.ID, idOfWorkout)
	if i < 0 {
		return nil
	}
	w := list[i].Clone()
	return &w
}

func (s *Store) selectCurrent(w *models.Workout) {
	if w != nil {
		c := w.Clone()
		w = &c
	}
	s.current.Set(w)
	s.persistSession()
}

func (s *Store) sessionState() session {
	st := session{DraftTemplateID: s.draftTemplateID}
	if cur := s.current.Get(); cur != nil {
		st.CurrentWorkoutID = cur.ID
	}
	if d := s.draft.Get(); d != nil {
		st.RoutineDraftID = d.ID
	}
	return st
}

func (s *Store) persistWorkouts(list []models.Workout) {
	s.persist(constants.WorkoutsKey, list, "Failed to save workout data")
}

func (s *Store) persistTemplates(list []models.WorkoutTemplate) {
	s.persist(constants.TemplatesKey, list, "Failed to save templates")
}

func (s *Store) persistSession() {
	s.persist(constants.SessionKey, s.sessionState(), "Failed to save session")
}

func (s *Store) persist(key string, v any, msg string) {
	data, err := json.Marshal(v)
	if err == nil {
		err = s.provider.SetItem(key, data)
	}
	if err != nil {
		logger.Error(msg, "key", key, "error", err)
		s.errMu.Lock()
		s.persistErr = err
		s.errMu.Unlock()
	}
}

func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var workouts []models.Workout
	if !s.read(constants.WorkoutsKey, &workouts, "Failed to load workout data") {
		workouts = nil
	}
	workouts = normalizeWorkouts(workouts)

	var templates []models.WorkoutTemplate
	if !s.read(constants.TemplatesKey, &templates, "Failed to load templates") {
		templates = nil
	}
	templates = normalizeTemplates(templates)

	var sess session
	if !s.read(constants.SessionKey, &sess, "Failed to load session") {
		sess = session{}
	}

	s.workouts.Set(workouts)
	s.templates.Set(templates)
	s.current.Set(lookup(workouts, ref(sess.CurrentWorkoutID)))
	s.draft.Set(lookup(workouts, ref(sess.RoutineDraftID)))
	s.draftTemplateID = ""
	if s.draft.Get() != nil {
		s.draftTemplateID = sess.DraftTemplateID
	}

	logger.Debug("Loaded workout store", "workouts", len(workouts), "templates", len(templates))
}

// read decodes key into v. A missing key reports false without logging.
func (s *Store) read(key string, v any, msg string) bool {
	data, err := s.provider.GetItem(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		logger.Error(msg, "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Error(msg, "key", key, "error", err)
		return false
	}
	return true
}

func ref(id string) *models.Workout {
	if id == "" {
		return nil
	}
	return &models.Workout{ID: id}
}

// normalizeWorkouts replaces null collections so published values always
// carry non-nil slices.
func normalizeWorkouts(list []models.Workout) []models.Workout {
	if list == nil {
		return []models.Workout{}
	}
	for i := range list {
		if list[i].Exercises == nil {
			list[i].Exercises = []models.Exercise{}
		}
		for j := range list[i].Exercises {
			if list[i].Exercises[j].Sets == nil {
				list[i].Exercises[j].Sets = []models.Set{}
			}
		}
		if list[i].StartTime.IsZero() {
			list[i].StartTime = list[i].Date
		}
	}
	return list
}

func normalizeTemplates(list []models.WorkoutTemplate) []models.WorkoutTemplate {
	if list == nil {
		return []models.WorkoutTemplate{}
	}
	for i := range list {
		if list[i].Exercises == nil {
			list[i].Exercises = []models.ExerciseTemplate{}
		}
		for j := range list[i].Exercises {
			if list[i].Exercises[j].Sets == nil {
				list[i].Exercises[j].Sets = []models.SetTemplate{}
			}
		}
	}
	return list
}

func cloneWorkouts(list []models.Workout) []models.Workout {
	out := make([]models.Workout, len(list))
	for i, w := range list {
		out[i] = w.Clone()
	}
	return out
}

func cloneTemplates(list []models.WorkoutTemplate) []models.WorkoutTemplate {
	out := make([]models.WorkoutTemplate, len(list))
	for i, t := range list {
		out[i] = t.Clone()
	}
	return out
}

func idOfWorkout(w models.Workout) string          { return w.ID }
func idOfTemplate(t models.WorkoutTemplate) string { return t.ID }
func idOfExercise(e models.Exercise) string        { return e.ID }
func idOfSet(s models.Set) string                  { return s.ID }
