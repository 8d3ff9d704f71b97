// Package catalog holds the built-in exercise catalog and its search.
package catalog

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

type Exercise struct {
	Name      string `json:"name" yaml:"name"`
	Category  string `json:"category" yaml:"category"`
	Equipment string `json:"equipment" yaml:"equipment"`
}

// Catalog is an ordered, searchable list of exercises.
type Catalog struct {
	items []Exercise
}

var builtin = []Exercise{
	{"Bench Press", "Chest", "Barbell"},
	{"Incline Bench Press", "Chest", "Barbell"},
	{"Dumbbell Bench Press", "Chest", "Dumbbell"},
	{"Incline Dumbbell Press", "Chest", "Dumbbell"},
	{"Chest Fly", "Chest", "Cable"},
	{"Push Up", "Chest", "Bodyweight"},
	{"Dips", "Chest", "Bodyweight"},
	{"Deadlift", "Back", "Barbell"},
	{"Barbell Row", "Back", "Barbell"},
	{"Dumbbell Row", "Back", "Dumbbell"},
	{"Pull Up", "Back", "Bodyweight"},
	{"Chin Up", "Back", "Bodyweight"},
	{"Lat Pulldown", "Back", "Cable"},
	{"Seated Cable Row", "Back", "Cable"},
	{"Face Pull", "Shoulders", "Cable"},
	{"Overhead Press", "Shoulders", "Barbell"},
	{"Dumbbell Shoulder Press", "Shoulders", "Dumbbell"},
	{"Lateral Raise", "Shoulders", "Dumbbell"},
	{"Rear Delt Fly", "Shoulders", "Dumbbell"},
	{"Squat", "Legs", "Barbell"},
	{"Front Squat", "Legs", "Barbell"},
	{"Romanian Deadlift", "Legs", "Barbell"},
	{"Leg Press", "Legs", "Machine"},
	{"Lunge", "Legs", "Dumbbell"},
	{"Bulgarian Split Squat", "Legs", "Dumbbell"},
	{"Leg Extension", "Legs", "Machine"},
	{"Leg Curl", "Legs", "Machine"},
	{"Hip Thrust", "Legs", "Barbell"},
	{"Calf Raise", "Legs", "Machine"},
	{"Bicep Curl", "Arms", "Dumbbell"},
	{"Barbell Curl", "Arms", "Barbell"},
	{"Hammer Curl", "Arms", "Dumbbell"},
	{"Tricep Pushdown", "Arms", "Cable"},
	{"Skull Crusher", "Arms", "Barbell"},
	{"Overhead Tricep Extension", "Arms", "Dumbbell"},
	{"Plank", "Core", "Bodyweight"},
	{"Hanging Leg Raise", "Core", "Bodyweight"},
	{"Cable Crunch", "Core", "Cable"},
	{"Russian Twist", "Core", "Bodyweight"},
	{"Running", "Cardio", "None"},
	{"Rowing", "Cardio", "Machine"},
	{"Cycling", "Cardio", "Machine"},
}

// Default returns a catalog of the built-in exercises.
func Default() *Catalog {
	return New(builtin)
}

// New builds a catalog from items, dropping blank and duplicate names
// (case-insensitive, first one wins).
func New(items []Exercise) *Catalog {
	seen := make(map[string]bool, len(items))
	c := &Catalog{items: make([]Exercise, 0, len(items))}
	for _, e := range items {
		e.Name = strings.TrimSpace(e.Name)
		key := strings.ToLower(e.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		c.items = append(c.items, e)
	}
	return c
}

func (c *Catalog) All() []Exercise {
	out := make([]Exercise, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int { return len(c.items) }

// Lookup finds an exercise by name, ignoring case.
func (c *Catalog) Lookup(name string) (Exercise, bool) {
	name = strings.TrimSpace(name)
	for _, e := range c.items {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Exercise{}, false
}

// Categories returns the distinct categories in sorted order.
func (c *Catalog) Categories() []string {
	set := map[string]bool{}
	for _, e := range c.items {
		set[e.Category] = true
	}
	out := make([]string, 0, len(set))
	for cat := range set {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// searchSource lets fuzzy match against "name category".
type searchSource []Exercise

func (s searchSource) String(i int) string { return s[i].Name + " " + s[i].Category }
func (s searchSource) Len() int            { return len(s) }

// Search returns exercises matching query, best match first. An empty
// query returns the whole catalog in order.
func (c *Catalog) Search(query string) []Exercise {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.All()
	}

	matches := fuzzy.FindFrom(query, searchSource(c.items))
	out := make([]Exercise, 0, len(matches))
	for _, m := range matches {
		out = append(out, c.items[m.Index])
	}
	return out
}
