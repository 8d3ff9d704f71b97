package routines

import (
	"fmt"
	"strings"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/utils"
)

type SaveCmd struct {
	Workout string `arg:"" optional:"" default:"current" help:"Workout id, id prefix, 'current' or 'draft'."`
	Name    string `help:"Routine name (defaults to the workout name)."`
}

func (c *SaveCmd) Run(ctx *cli.Context) error {
	w, err := ctx.ResolveWorkout(c.Workout)
	if err != nil {
		return err
	}
	if name := strings.TrimSpace(c.Name); name != "" {
		w.Name = name
	}

	tpl := ctx.Store.SaveAsTemplate(w)
	fmt.Printf("✓ Saved routine \"%s\" (%s): %d exercises, %d sets\n",
		tpl.Name, cli.ShortID(tpl.ID), len(tpl.Exercises), tpl.SetCount())
	return ctx.Flush()
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	templates := ctx.Store.Templates().Get()
	if len(templates) == 0 {
		fmt.Println("No routines saved. Save one with 'liftlog routine save' or 'liftlog routine new'.")
		return nil
	}

	editing := ctx.Store.DraftTemplateID()
	for i, t := range templates {
		marker := ""
		if t.ID == editing {
			marker = "  (editing)"
		}
		fmt.Printf("%2d. %s  %-24s %2d ex  %3d sets%s\n",
			i+1, cli.ShortID(t.ID), t.Name, len(t.Exercises), t.SetCount(), marker)
	}
	return nil
}

type ShowCmd struct {
	ID string `arg:"" help:"Routine id, id prefix or name."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	tpl, err := ctx.ResolveTemplate(c.ID)
	if err != nil {
		return err
	}
	PrintTemplate(tpl, ctx.WeightUnit())
	return nil
}

func PrintTemplate(t models.WorkoutTemplate, unit string) {
	fmt.Printf("%s  (%s)\n", t.Name, t.ID)
	if len(t.Exercises) == 0 {
		fmt.Println("  No exercises.")
		return
	}
	for i, e := range t.Exercises {
		fmt.Printf("\n  %d. %s\n", i+1, e.Name)
		for j, s := range e.Sets {
			fmt.Printf("     %d. %d × %s\n", j+1, s.Reps, utils.FormatWeight(s.Weight, unit))
		}
	}
}

type RenameCmd struct {
	ID   string `arg:"" help:"Routine id, id prefix or name."`
	Name string `arg:"" help:"New name."`
}

func (c *RenameCmd) Run(ctx *cli.Context) error {
	tpl, err := ctx.ResolveTemplate(c.ID)
	if err != nil {
		return err
	}
	old := tpl.Name
	tpl.Name = strings.TrimSpace(c.Name)
	if err := tpl.Validate(); err != nil {
		return err
	}
	if !ctx.Store.UpdateTemplate(tpl) {
		return fmt.Errorf("failed to rename \"%s\"", old)
	}
	fmt.Printf("✓ Renamed \"%s\" to \"%s\"\n", old, tpl.Name)
	return ctx.Flush()
}

type DeleteCmd struct {
	ID  string `arg:"" help:"Routine id, id prefix or name."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	tpl, err := ctx.ResolveTemplate(c.ID)
	if err != nil {
		return err
	}
	if !c.Yes && !cli.Confirm(fmt.Sprintf("Delete routine \"%s\"?", tpl.Name)) {
		fmt.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	ctx.Store.DeleteTemplate(tpl.ID)
	fmt.Printf("✓ Deleted routine \"%s\"\n", tpl.Name)
	return ctx.Flush()
}

type MoveCmd struct {
	Dragged string `arg:"" help:"Routine to move."`
	Target  string `arg:"" help:"Routine whose position it takes."`
}

func (c *MoveCmd) Run(ctx *cli.Context) error {
	dragged, err := ctx.ResolveTemplate(c.Dragged)
	if err != nil {
		return err
	}
	target, err := ctx.ResolveTemplate(c.Target)
	if err != nil {
		return err
	}
	if dragged.ID == target.ID {
		fmt.Println("Nothing to move.")
		return nil
	}

	ctx.Store.ReorderTemplates(dragged.ID, target.ID)
	fmt.Printf("✓ Moved \"%s\" to the position of \"%s\"\n", dragged.Name, target.Name)
	return ctx.Flush()
}

type StartCmd struct {
	ID   string `arg:"" help:"Routine id, id prefix or name."`
	Name string `help:"Name for the new workout (defaults to the routine name)."`
}

func (c *StartCmd) Run(ctx *cli.Context) error {
	tpl, err := ctx.ResolveTemplate(c.ID)
	if err != nil {
		return err
	}
	if name := strings.TrimSpace(c.Name); name != "" {
		tpl.Name = name
	}

	w := ctx.Store.CreateWorkoutFromTemplate(tpl)
	fmt.Printf("✓ Started \"%s\" (%s): %d exercises, %d sets\n",
		w.Name, cli.ShortID(w.ID), len(w.Exercises), w.SetCount())
	return ctx.Flush()
}

type NewCmd struct {
	Name string `arg:"" optional:"" help:"Routine name."`
	From string `help:"Copy exercises and sets from a workout (id, id prefix or 'current')."`
}

func (c *NewCmd) Run(ctx *cli.Context) error {
	if d := ctx.Store.RoutineDraft().Get(); d != nil {
		if !cli.Confirm(fmt.Sprintf("Replace the unsaved routine draft \"%s\"?", d.Name)) {
			fmt.Println("Keeping the existing draft.")
			return nil
		}
	}

	var draft models.Workout
	if c.From != "" {
		src, err := ctx.ResolveWorkout(c.From)
		if err != nil {
			return err
		}
		d, ok := ctx.Store.CreateDraftFromWorkout(src.ID)
		if !ok {
			return fmt.Errorf("workout %s no longer exists", src.ID)
		}
		draft = d
		if name := strings.TrimSpace(c.Name); name != "" {
			draft.Name = name
			ctx.Store.UpdateWorkout(draft)
		}
	} else {
		draft = ctx.Store.StartRoutineDraft(c.Name)
	}

	fmt.Printf("✓ Started routine draft \"%s\"\n", draft.Name)
	fmt.Println("  Add exercises with 'liftlog exercise add NAME -w draft', then 'liftlog routine commit'.")
	return ctx.Flush()
}

type EditCmd struct {
	ID string `arg:"" help:"Routine id, id prefix or name."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	tpl, err := ctx.ResolveTemplate(c.ID)
	if err != nil {
		return err
	}
	if d := ctx.Store.RoutineDraft().Get(); d != nil {
		if !cli.Confirm(fmt.Sprintf("Replace the unsaved routine draft \"%s\"?", d.Name)) {
			fmt.Println("Keeping the existing draft.")
			return nil
		}
	}

	draft, ok := ctx.Store.EditTemplateAsDraft(tpl.ID)
	if !ok {
		return fmt.Errorf("routine %s no longer exists", tpl.ID)
	}
	fmt.Printf("✓ Editing \"%s\" as a draft (%d exercises)\n", draft.Name, len(draft.Exercises))
	fmt.Println("  Change it with 'liftlog exercise ... -w draft', then 'liftlog routine commit'.")
	return ctx.Flush()
}

type CommitCmd struct{}

func (c *CommitCmd) Run(ctx *cli.Context) error {
	replacing := ctx.Store.DraftTemplateID()
	tpl, ok := ctx.Store.CommitRoutineDraft()
	if !ok {
		return cli.ErrNoRoutineDraft
	}
	if replacing != "" && replacing == tpl.ID {
		fmt.Printf("✓ Updated routine \"%s\"\n", tpl.Name)
	} else {
		fmt.Printf("✓ Saved routine \"%s\" (%s)\n", tpl.Name, cli.ShortID(tpl.ID))
	}
	return ctx.Flush()
}

type DiscardCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *DiscardCmd) Run(ctx *cli.Context) error {
	d := ctx.Store.RoutineDraft().Get()
	if d == nil {
		return cli.ErrNoRoutineDraft
	}
	if !c.Yes && !cli.Confirm(fmt.Sprintf("Discard routine draft \"%s\"?", d.Name)) {
		fmt.Println("Discard cancelled.")
		return nil
	}

	ctx.Store.DiscardRoutineDraft()
	fmt.Printf("✓ Discarded routine draft \"%s\"\n", d.Name)
	return ctx.Flush()
}
