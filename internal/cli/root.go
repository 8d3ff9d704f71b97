package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/julianstephens/liftlog/internal/backup"
	"github.com/julianstephens/liftlog/internal/catalog"
	"github.com/julianstephens/liftlog/internal/config"
	clierrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/internal/utils"
	"github.com/julianstephens/liftlog/internal/workout"
)

// Reference aliases accepted wherever a workout id is expected.
const (
	RefCurrent = "current"
	RefDraft   = "draft"
)

var (
	ErrNoCurrentWorkout = clierrors.WithHint(errors.New("no workout in progress"),
		"start one with 'liftlog workout start' or pick one up with 'liftlog workout resume'")
	ErrNoRoutineDraft = clierrors.WithHint(errors.New("no routine draft"),
		"start one with 'liftlog routine new' or 'liftlog routine edit'")
	ErrAmbiguousID = clierrors.WithHint(errors.New("id prefix matches more than one item"),
		"type more characters of the id")
)

type Context struct {
	Store    *workout.Store
	Provider storage.Provider
	Catalog  *catalog.Catalog
	Config   *config.Config
	Backups  *backup.Manager
}

// Stdin is read by Confirm.
var Stdin io.Reader = os.Stdin

// Confirm asks a yes/no question on stdout and reads the answer. Anything
// but "y" or "yes" is a no.
func Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(Stdin).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Backups == nil || (c.Config != nil && !c.Config.Backup.Enabled) {
		return
	}
	if _, err := c.Backups.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Flush reports a write-through failure from the store so the command
// exits non-zero even though the in-memory change was applied.
func (c *Context) Flush() error {
	if err := c.Store.PersistErr(); err != nil {
		return fmt.Errorf("changes were not saved: %w", err)
	}
	return nil
}

// WeightUnit is the configured display unit.
func (c *Context) WeightUnit() string {
	if c.Config == nil {
		return "kg"
	}
	return c.Config.Workout.WeightUnit
}

// ResolveWorkout finds a workout by id, unique id prefix, or the
// "current" and "draft" aliases.
func (c *Context) ResolveWorkout(ref string) (models.Workout, error) {
	ref = strings.TrimSpace(ref)
	switch strings.ToLower(ref) {
	case "", RefCurrent:
		cur := c.Store.CurrentWorkout().Get()
		if cur == nil {
			return models.Workout{}, ErrNoCurrentWorkout
		}
		return cur.Clone(), nil
	case RefDraft:
		d := c.Store.RoutineDraft().Get()
		if d == nil {
			return models.Workout{}, ErrNoRoutineDraft
		}
		return d.Clone(), nil
	}

	list := c.Store.Workouts().Get()
	i, err := matchPrefix(list, ref, func(w models.Workout) string { return w.ID })
	if err != nil {
		return models.Workout{}, fmt.Errorf("workout %q: %w", ref, err)
	}
	return list[i].Clone(), nil
}

// ResolveTemplate finds a routine by id, unique id prefix, or exact name.
func (c *Context) ResolveTemplate(ref string) (models.WorkoutTemplate, error) {
	list := c.Store.Templates().Get()
	i, err := matchPrefix(list, ref, func(t models.WorkoutTemplate) string { return t.ID })
	if errors.Is(err, storage.ErrNotFound) {
		for _, t := range list {
			if strings.EqualFold(t.Name, strings.TrimSpace(ref)) {
				return t.Clone(), nil
			}
		}
	}
	if err != nil {
		return models.WorkoutTemplate{}, fmt.Errorf("routine %q: %w", ref, err)
	}
	return list[i].Clone(), nil
}

// ResolveExercise finds an exercise in w by 1-based position, id prefix,
// or name.
func ResolveExercise(w models.Workout, ref string) (models.Exercise, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(w.Exercises) {
			return models.Exercise{}, fmt.Errorf("exercise %d: out of range (workout has %d)", n, len(w.Exercises))
		}
		return w.Exercises[n-1], nil
	}

	i, err := matchPrefix(w.Exercises, ref, func(e models.Exercise) string { return e.ID })
	if errors.Is(err, storage.ErrNotFound) {
		for _, e := range w.Exercises {
			if strings.EqualFold(e.Name, ref) {
				return e, nil
			}
		}
	}
	if err != nil {
		return models.Exercise{}, fmt.Errorf("exercise %q: %w", ref, err)
	}
	return w.Exercises[i], nil
}

// ResolveSet finds a set in e by 1-based position or id prefix.
func ResolveSet(e models.Exercise, ref string) (models.Set, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(e.Sets) {
			return models.Set{}, fmt.Errorf("set %d: out of range (%s has %d)", n, e.Name, len(e.Sets))
		}
		return e.Sets[n-1], nil
	}

	i, err := matchPrefix(e.Sets, ref, func(s models.Set) string { return s.ID })
	if err != nil {
		return models.Set{}, fmt.Errorf("set %q: %w", ref, err)
	}
	return e.Sets[i], nil
}

// matchPrefix returns the index of the item whose id equals ref, or the
// only item whose id starts with ref.
func matchPrefix[T any](items []T, ref string, idOf func(T) string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, storage.ErrNotFound
	}
	for i, item := range items {
		if idOf(item) == ref {
			return i, nil
		}
	}
	found := -1
	for i, item := range items {
		if strings.HasPrefix(idOf(item), ref) {
			if found >= 0 {
				return -1, ErrAmbiguousID
			}
			found = i
		}
	}
	if found < 0 {
		return -1, storage.ErrNotFound
	}
	return found, nil
}

// ShortID trims a uuid to the prefix shown in listings.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatSet renders a set as "3. 8 × 60 kg [W] ✓".
func FormatSet(n int, s models.Set, unit string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %d × %s", n, s.Reps, utils.FormatWeight(s.Weight, unit))
	if m := s.Type.Marker(); m != "" {
		fmt.Fprintf(&b, " [%s]", m)
	}
	if s.Completed {
		b.WriteString(" ✓")
	}
	return b.String()
}
