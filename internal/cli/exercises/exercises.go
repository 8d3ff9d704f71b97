package exercises

import (
	"fmt"
	"strings"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/models"
)

type AddCmd struct {
	Name    string `arg:"" help:"Exercise name, or a search query with --pick."`
	Workout string `short:"w" default:"current" help:"Workout id, id prefix, 'current' or 'draft'."`
	Sets    *int   `short:"s" help:"Number of empty sets to add (default from config)."`
	Pick    bool   `short:"p" help:"Use the best catalog match for NAME."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	w, err := ctx.ResolveWorkout(c.Workout)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(c.Name)
	if c.Pick && ctx.Catalog != nil {
		matches := ctx.Catalog.Search(name)
		if len(matches) == 0 {
			return fmt.Errorf("no catalog exercise matches %q", name)
		}
		name = matches[0].Name
	}
	if name == "" {
		return fmt.Errorf("exercise name is required")
	}

	sets := 0
	if ctx.Config != nil {
		sets = ctx.Config.Workout.DefaultSets
	}
	if c.Sets != nil {
		sets = *c.Sets
	}
	if sets < 0 {
		return fmt.Errorf("--sets cannot be negative")
	}

	ex, ok := ctx.Store.AddExerciseToWorkout(w.ID, name)
	if !ok {
		return fmt.Errorf("workout %s no longer exists", w.ID)
	}
	for i := 0; i < sets; i++ {
		ctx.Store.AddSetToExercise(w.ID, ex.ID)
	}

	fmt.Printf("✓ Added %s to \"%s\" with %d sets\n", ex.Name, w.Name, sets)
	if ctx.Catalog != nil {
		if _, known := ctx.Catalog.Lookup(ex.Name); !known {
			fmt.Printf("  Note: %s is not in the exercise catalog\n", ex.Name)
		}
	}
	return ctx.Flush()
}

type RemoveCmd struct {
	Exercise string `arg:"" help:"Exercise position, id prefix or name."`
	Workout  string `short:"w" default:"current" help:"Workout id, id prefix, 'current' or 'draft'."`
	Yes      bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *RemoveCmd) Run(ctx *cli.Context) error {
	w, ex, err := resolve(ctx, c.Workout, c.Exercise)
	if err != nil {
		return err
	}
	if len(ex.Sets) > 0 && !c.Yes && !cli.Confirm(fmt.Sprintf("Remove %s and its %d sets?", ex.Name, len(ex.Sets))) {
		fmt.Println("Remove cancelled.")
		return nil
	}

	ctx.Store.RemoveExerciseFromWorkout(w.ID, ex.ID)
	fmt.Printf("✓ Removed %s from \"%s\"\n", ex.Name, w.Name)
	return ctx.Flush()
}

type ReplaceCmd struct {
	Exercise string `arg:"" help:"Exercise position, id prefix or name."`
	Name     string `arg:"" help:"New exercise name."`
	Workout  string `short:"w" default:"current" help:"Workout id, id prefix, 'current' or 'draft'."`
}

func (c *ReplaceCmd) Run(ctx *cli.Context) error {
	w, ex, err := resolve(ctx, c.Workout, c.Exercise)
	if err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("new exercise name is required")
	}

	ctx.Store.ReplaceExerciseInWorkout(w.ID, ex.ID, c.Name)
	fmt.Printf("✓ Replaced %s with %s (sets kept)\n", ex.Name, strings.TrimSpace(c.Name))
	return ctx.Flush()
}

type MoveCmd struct {
	Dragged string `arg:"" help:"Exercise to move."`
	Target  string `arg:"" help:"Exercise whose position it takes."`
	Workout string `short:"w" default:"current" help:"Workout id, id prefix, 'current' or 'draft'."`
}

func (c *MoveCmd) Run(ctx *cli.Context) error {
	w, dragged, err := resolve(ctx, c.Workout, c.Dragged)
	if err != nil {
		return err
	}
	target, err := cli.ResolveExercise(w, c.Target)
	if err != nil {
		return err
	}
	if dragged.ID == target.ID {
		fmt.Println("Nothing to move.")
		return nil
	}

	ctx.Store.ReorderExercises(w.ID, dragged.ID, target.ID)
	fmt.Printf("✓ Moved %s to the position of %s\n", dragged.Name, target.Name)
	return ctx.Flush()
}

type SearchCmd struct {
	Query string `arg:"" optional:"" help:"Fuzzy search over names and categories."`
	Limit int    `short:"n" default:"10" help:"Maximum number of results (0 for all)."`
}

func (c *SearchCmd) Run(ctx *cli.Context) error {
	if ctx.Catalog == nil {
		return fmt.Errorf("exercise catalog is not loaded")
	}
	results := ctx.Catalog.Search(c.Query)
	if len(results) == 0 {
		fmt.Printf("No exercises match %q.\n", c.Query)
		return nil
	}
	if c.Limit > 0 && len(results) > c.Limit {
		results = results[:c.Limit]
	}
	for _, e := range results {
		fmt.Printf("  %-28s %-10s %s\n", e.Name, e.Category, e.Equipment)
	}
	return nil
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
