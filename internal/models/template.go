package models

import (
	"fmt"
	"strings"
)

// SetTemplate is the planned reps and weight of one set in a routine.
type SetTemplate struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

type ExerciseTemplate struct {
	Name string        `json:"name"`
	Sets []SetTemplate `json:"sets"`
}

// WorkoutTemplate is a reusable routine. It carries no per-session state.
type WorkoutTemplate struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Exercises []ExerciseTemplate `json:"exercises"`
}

func (t WorkoutTemplate) Clone() WorkoutTemplate {
	c := t
	c.Exercises = make([]ExerciseTemplate, len(t.Exercises))
	for i, e := range t.Exercises {
		sets := make([]SetTemplate, len(e.Sets))
		copy(sets, e.Sets)
		c.Exercises[i] = ExerciseTemplate{Name: e.Name, Sets: sets}
	}
	return c
}

func (t *WorkoutTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("routine name cannot be empty")
	}
	for _, e := range t.Exercises {
		for i, s := range e.Sets {
			if s.Reps < 0 || s.Weight < 0 {
				return fmt.Errorf("exercise %q set %d: reps and weight must be non-negative", e.Name, i+1)
			}
		}
	}
	return nil
}

func (t WorkoutTemplate) SetCount() int {
	n := 0
	for _, e := range t.Exercises {
		n += len(e.Sets)
	}
	return n
}

// TemplateFromWorkout strips per-session state (ids, completion, set
// types) from w. The caller assigns the template id.
func TemplateFromWorkout(w Workout) WorkoutTemplate {
	exercises := make([]ExerciseTemplate, len(w.Exercises))
	for i, e := range w.Exercises {
		sets := make([]SetTemplate, len(e.Sets))
		for j, s := range e.Sets {
			sets[j] = SetTemplate{Reps: s.Reps, Weight: s.Weight}
		}
		exercises[i] = ExerciseTemplate{Name: e.Name, Sets: sets}
	}
	return WorkoutTemplate{Name: w.Name, Exercises: exercises}
}
