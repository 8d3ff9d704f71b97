package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateWorkoutID  ConflictType = "duplicate_workout_id"
	ConflictDuplicateExerciseID ConflictType = "duplicate_exercise_id"
	ConflictDuplicateSetID      ConflictType = "duplicate_set_id"
	ConflictDuplicateTemplateID ConflictType = "duplicate_template_id"
	ConflictMissingID           ConflictType = "missing_id"
	ConflictInvalidSet          ConflictType = "invalid_set"
	ConflictInvalidTime         ConflictType = "invalid_time"
	ConflictIncompleteWorkout   ConflictType = "incomplete_workout"
	ConflictDanglingReference   ConflictType = "dangling_reference"
)

// Conflict represents a detected problem in stored data
type Conflict struct {
	Type        ConflictType
	Description string
	WorkoutID   string // empty for template conflicts
	TemplateID  string
	IDs         []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Count returns how many conflicts of type ct were found.
func (vr *ValidationResult) Count(ct ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == ct {
			n++
		}
	}
	return n
}

// Snapshot is the stored state being checked.
type Snapshot struct {
	Workouts         []models.Workout
	Templates        []models.WorkoutTemplate
	CurrentWorkoutID string
	RoutineDraftID   string
}

// Validator validates workouts and routines for conflicts
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// Validate runs every check over snap.
func (v *Validator) Validate(snap Snapshot) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	result.Conflicts = append(result.Conflicts, v.ValidateWorkouts(snap.Workouts).Conflicts...)
	result.Conflicts = append(result.Conflicts, v.ValidateTemplates(snap.Templates).Conflicts...)

	known := make(map[string]bool, len(snap.Workouts))
	for _, w := range snap.Workouts {
		known[w.ID] = true
	}
	for _, ref := range []struct{ label, id string }{
		{"current workout", snap.CurrentWorkoutID},
		{"routine draft", snap.RoutineDraftID},
	} {
		if ref.id != "" && !known[ref.id] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDanglingReference,
				Description: fmt.Sprintf("Session %s points at missing workout %s", ref.label, ref.id),
				WorkoutID:   ref.id,
			})
		}
	}
	return result
}

// ValidateWorkouts checks ids, sets and timestamps of every workout.
func (v *Validator) ValidateWorkouts(workouts []models.Workout) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	ids := make(map[string]int)
	for _, w := range workouts {
		if w.ID == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingID,
				Description: fmt.Sprintf("Workout \"%s\" has no id", w.Name),
			})
			continue
		}
		ids[w.ID]++
	}
	for _, id := range sortedDuplicates(ids) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateWorkoutID,
			Description: fmt.Sprintf("Duplicate workout id: %s (%d workouts)", id, ids[id]),
			WorkoutID:   id,
			IDs:         []string{id},
		})
	}

	for _, w := range workouts {
		result.Conflicts = append(result.Conflicts, checkWorkout(w)...)
	}
	return result
}

func checkWorkout(w models.Workout) []Conflict {
	var conflicts []Conflict
	add := func(ct ConflictType, format string, args ...interface{}) {
		conflicts = append(conflicts, Conflict{
			Type:        ct,
			Description: fmt.Sprintf("Workout \"%s\": ", w.Name) + fmt.Sprintf(format, args...),
			WorkoutID:   w.ID,
		})
	}

	if w.EndTime != nil && w.EndTime.Before(w.StartTime) {
		add(ConflictInvalidTime, "ends (%s) before it starts (%s)",
			w.EndTime.Format(constants.DateTimeFormat), w.StartTime.Format(constants.DateTimeFormat))
	}
	if w.Completed && w.EndTime == nil {
		add(ConflictIncompleteWorkout, "marked completed without an end time")
	}
	if w.Duration != nil && *w.Duration < 0 {
		add(ConflictInvalidTime, "has negative duration %d", *w.Duration)
	}

	exerciseIDs := make(map[string]int)
	for _, e := range w.Exercises {
		if e.ID == "" {
			add(ConflictMissingID, "exercise \"%s\" has no id", e.Name)
		} else {
			exerciseIDs[e.ID]++
		}

		setIDs := make(map[string]int)
		for i, s := range e.Sets {
			if s.ID == "" {
				add(ConflictMissingID, "set %d of \"%s\" has no id", i+1, e.Name)
			} else {
				setIDs[s.ID]++
			}
			if s.Reps < 0 {
				add(ConflictInvalidSet, "set %d of \"%s\" has negative reps (%d)", i+1, e.Name, s.Reps)
			}
			if s.Weight < 0 || math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) {
				add(ConflictInvalidSet, "set %d of \"%s\" has invalid weight (%g)", i+1, e.Name, s.Weight)
			}
			if !s.Type.Valid() {
				add(ConflictInvalidSet, "set %d of \"%s\" has unknown type %q", i+1, e.Name, s.Type)
			}
		}
		for _, id := range sortedDuplicates(setIDs) {
			add(ConflictDuplicateSetID, "exercise \"%s\" repeats set id %s", e.Name, id)
		}
	}
	for _, id := range sortedDuplicates(exerciseIDs) {
		add(ConflictDuplicateExerciseID, "repeats exercise id %s", id)
	}
	return conflicts
}

// ValidateTemplates checks routine ids and planned sets.
func (v *Validator) ValidateTemplates(templates []models.WorkoutTemplate) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	ids := make(map[string]int)
	for _, t := range templates {
		if t.ID == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingID,
				Description: fmt.Sprintf("Routine \"%s\" has no id", t.Name),
			})
			continue
		}
		ids[t.ID]++

		for _, e := range t.Exercises {
			for i, s := range e.Sets {
				if s.Reps < 0 || s.Weight < 0 {
					result.Conflicts = append(result.Conflicts, Conflict{
						Type:        ConflictInvalidSet,
						Description: fmt.Sprintf("Routine \"%s\": set %d of \"%s\" has negative reps or weight", t.Name, i+1, e.Name),
						TemplateID:  t.ID,
					})
				}
			}
		}
	}
	for _, id := range sortedDuplicates(ids) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateTemplateID,
			Description: fmt.Sprintf("Duplicate routine id: %s (%d routines)", id, ids[id]),
			TemplateID:  id,
			IDs:         []string{id},
		})
	}
	return result
}

func sortedDuplicates(counts map[string]int) []string {
	var out []string
	for id, n := range counts {
		if n > 1 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
