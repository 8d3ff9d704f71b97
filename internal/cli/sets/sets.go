package sets

import (
	"fmt"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/models"
)

type AddCmd struct {
	Exercise string   `arg:"" help:"Exercise position, id prefix or name."`
	Workout  string   `short:"w" default:"current" help:"Workout id, id prefix, 'current' or 'draft'."`
	Count    int      `short:"c" default:"1" help:"Number of sets to add."`
	Reps     *int     `short:"r" help:"Reps for the new sets."`
	Weight   *float64 `short:"k" help:"Weight for the new sets."`
	Type     *string  `short:"t" help:"Set type: normal, warmup, failure or drop."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	w, ex, err := resolve(ctx, c.Workout, c.Exercise)
	if err != nil {
		return err
	}
	if c.Count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	// validate the shared values before creating anything
	template := models.Set{}
	if err := apply(&template, c.Reps, c.Weight, c.Type, nil); err != nil {
		return err
	}

	for i := 0; i < c.Count; i++ {
		set, ok := ctx.Store.AddSetToExercise(w.ID, ex.ID)
		if !ok {
			return fmt.Errorf("exercise %s no longer exists", ex.Name)
		}
		template.ID = set.ID
		if template != set {
			ctx.Store.UpdateSet(w.ID, ex.ID, template)
		}
	}

	fmt.Printf("✓ Added %d set(s) to %s\n", c.Count, ex.Name)
	return ctx.Flush()
}

type UpdateCmd struct {
	Exercise string   `arg:"" help:"Exercise position, id prefix or name."`
	Set      string   `arg:"" help:"Set position or id prefix."`
	Workout  string   `short:"w" default:"current" help:"Workout id, id prefix, 'current' or 'draft'."`
	Reps     *int     `short:"r" help:"Reps."`
	Weight   *float64 `short:"k" help:"Weight."`
	Type     *string  `short:"t" help:"Set type: normal, warmup, failure or drop."`
	Done     bool     `short:"d" xor:"done" help:"Mark the set completed."`
	Undone   bool     `xor:"done" help:"Mark the set not completed."`
}

func (c *UpdateCmd) Run(ctx *cli.Context) error {
	w, ex, err := resolve(ctx, c.Workout, c.Exercise)
	if err != nil {
		return err
	}
	set, err := cli.ResolveSet(ex, c.Set)
	if err != nil {
		return err
	}

	var done *bool
	switch {
	case c.Done:
		done = new(bool)
		*done = true
	case c.Undone:
		done = new(bool)
	}
	if c.Reps == nil && c.Weight == nil && c.Type == nil && done == nil {
		return fmt.Errorf("nothing to change, pass --reps, --weight, --type, --done or --undone")
	}

	if err := apply(&set, c.Reps, c.Weight, c.Type, done); err != nil {
		return err
	}
	if !ctx.Store.UpdateSet(w.ID, ex.ID, set) {
		return fmt.Errorf("failed to update set %s", cli.ShortID(set.ID))
	}

	fmt.Printf("✓ %s: %s\n", ex.Name, cli.FormatSet(ex.FindSet(set.ID)+1, set, ctx.WeightUnit()))
	return ctx.Flush()
}

type RemoveCmd struct {
	Exercise string `arg:"" help:"Exercise position, id prefix or name."`
	Set      string `arg:"" help:"Set position or id prefix."`
	Workout  string `short:"w" default:"current" help:"Workout id, id prefix, 'current' or 'draft'."`
}

func (c *RemoveCmd) Run(ctx *cli.Context) error {
	w, ex, err := resolve(ctx, c.Workout, c.Exercise)
	if err != nil {
		return err
	}
	set, err := cli.ResolveSet(ex, c.Set)
	if err != nil {
		return err
	}

	ctx.Store.RemoveSetFromExercise(w.ID, ex.ID, set.ID)
	fmt.Printf("✓ Removed set %d from %s\n", ex.FindSet(set.ID)+1, ex.Name)
	return ctx.Flush()
}

// apply copies the provided fields onto s and validates the result.
func apply(s *models.Set, reps *int, weight *float64, typ *string, done *bool) error {
	if reps != nil {
		s.Reps = *reps
	}
	if weight != nil {
		s.Weight = *weight
	}
	if typ != nil {
		t, err := models.ParseSetType(*typ)
		if err != nil {
			return err
		}
		s.Type = t
	}
	if done != nil {
		s.Completed = *done
	}
	return s.Validate()
}

func resolve(ctx *cli.Context, workoutRef, exerciseRef string) (models.Workout, models.Exercise, error) {
	w, err := ctx.ResolveWorkout(workoutRef)
	if err != nil {
		return models.Workout{}, models.Exercise{}, err
	}
	ex, err := cli.ResolveExercise(w, exerciseRef)
	if err != nil {
		return models.Workout{}, models.Exercise{}, err
	}
	return w, ex, nil
}
