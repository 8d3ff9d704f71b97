package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type SetType string

const (
	SetTypeNormal  SetType = "normal"
	SetTypeWarmup  SetType = "warmup"
	SetTypeFailure SetType = "failure"
	SetTypeDrop    SetType = "drop"
)

// SetTypes lists every supported set type in menu order.
var SetTypes = []SetType{SetTypeNormal, SetTypeWarmup, SetTypeFailure, SetTypeDrop}

// ParseSetType accepts a set type name or its single letter marker.
func ParseSetType(s string) (SetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "n":
		return SetTypeNormal, nil
	case "warmup", "warm-up", "w":
		return SetTypeWarmup, nil
	case "failure", "f":
		return SetTypeFailure, nil
	case "drop", "d":
		return SetTypeDrop, nil
	default:
		return "", fmt.Errorf("invalid set type: %s", s)
	}
}

// Valid reports whether t is a known set type. The empty value means normal.
func (t SetType) Valid() bool {
	switch t {
	case "", SetTypeNormal, SetTypeWarmup, SetTypeFailure, SetTypeDrop:
		return true
	}
	return false
}

// Marker returns the short label shown next to a set ("W", "F", "D"),
// or "" for normal sets.
func (t SetType) Marker() string {
	switch t {
	case SetTypeWarmup:
		return "W"
	case SetTypeFailure:
		return "F"
	case SetTypeDrop:
		return "D"
	default:
		return ""
	}
}

type Set struct {
	ID        string  `json:"id"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
	Type      SetType `json:"type,omitempty"`
}

func (s *Set) Validate() error {
	if s.Reps < 0 {
		return fmt.Errorf("reps cannot be negative")
	}
	if s.Weight < 0 || math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) {
		return fmt.Errorf("weight must be a non-negative number")
	}
	if !s.Type.Valid() {
		return fmt.Errorf("invalid set type: %s", s.Type)
	}
	return nil
}

// Volume is weight × reps for the set.
func (s Set) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

type Exercise struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sets []Set  `json:"sets"`
}

func (e Exercise) Clone() Exercise {
	c := e
	c.Sets = make([]Set, len(e.Sets))
	copy(c.Sets, e.Sets)
	return c
}

func (e Exercise) Volume() float64 {
	var total float64
	for _, s := range e.Sets {
		total += s.Volume()
	}
	return total
}

type Workout struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Date      time.Time  `json:"date"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  *int       `json:"duration,omitempty"` // minutes
	Exercises []Exercise `json:"exercises"`
	Completed bool       `json:"completed"`
	Notes     string     `json:"notes,omitempty"`
}

// Clone returns a deep copy; nothing in the result aliases w.
func (w Workout) Clone() Workout {
	c := w
	if w.EndTime != nil {
		end := *w.EndTime
		c.EndTime = &end
	}
	if w.Duration != nil {
		d := *w.Duration
		c.Duration = &d
	}
	c.Exercises = make([]Exercise, len(w.Exercises))
	for i, e := range w.Exercises {
		c.Exercises[i] = e.Clone()
	}
	return c
}

func (w *Workout) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("workout name cannot be empty")
	}
	if w.EndTime != nil && w.EndTime.Before(w.StartTime) {
		return fmt.Errorf("workout end time is before its start time")
	}
	for _, e := range w.Exercises {
		for _, s := range e.Sets {
			if err := s.Validate(); err != nil {
				return fmt.Errorf("exercise %q set %s: %w", e.Name, s.ID, err)
			}
		}
	}
	return nil
}

func (w Workout) SetCount() int {
	n := 0
	for _, e := range w.Exercises {
		n += len(e.Sets)
	}
	return n
}

func (w Workout) Volume() float64 {
	var total float64
	for _, e := range w.Exercises {
		total += e.Volume()
	}
	return total
}

// ElapsedMinutes is the whole minutes between start and end, or 0 when the
// workout has no end time.
func (w Workout) ElapsedMinutes() int {
	if w.EndTime == nil || w.StartTime.IsZero() {
		return 0
	}
	return int(w.EndTime.Sub(w.StartTime) / time.Minute)
}

// FindExercise returns the index of the exercise with the given id, or -1.
func (w Workout) FindExercise(id string) int {
	for i, e := range w.Exercises {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// FindSet returns the index of the set with the given id, or -1.
func (e Exercise) FindSet(id string) int {
	for i, s := range e.Sets {
		if s.ID == id {
			return i
		}
	}
	return -1
}
