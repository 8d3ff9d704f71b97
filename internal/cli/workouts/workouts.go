package workouts

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/constants"
	clierrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/utils"
)

var errDraftNotWorkout = clierrors.WithHint(
	errors.New("the routine draft is not a workout"),
	"save it with 'liftlog routine commit' or drop it with 'liftlog routine discard'")

type StartCmd struct {
	Name    string `arg:"" optional:"" help:"Workout name."`
	Routine string `short:"r" help:"Start from a routine (id, id prefix or name)."`
}

func (c *StartCmd) Run(ctx *cli.Context) error {
	if cur := ctx.Store.CurrentWorkout().Get(); cur != nil {
		fmt.Printf("Leaving \"%s\" in progress (resume with 'liftlog workout resume %s').\n", cur.Name, cli.ShortID(cur.ID))
	}

	var w models.Workout
	if c.Routine != "" {
		tpl, err := ctx.ResolveTemplate(c.Routine)
		if err != nil {
			return err
		}
		if c.Name != "" {
			tpl.Name = c.Name
		}
		w = ctx.Store.CreateWorkoutFromTemplate(tpl)
	} else {
		name := c.Name
		if strings.TrimSpace(name) == "" && ctx.Config != nil {
			name = ctx.Config.Workout.DefaultName
		}
		w = ctx.Store.CreateWorkout(name)
	}

	fmt.Printf("✓ Started \"%s\" (%s)\n", w.Name, cli.ShortID(w.ID))
	if len(w.Exercises) > 0 {
		fmt.Printf("  %d exercises, %d sets from routine\n", len(w.Exercises), w.SetCount())
	}
	return ctx.Flush()
}

type ListCmd struct {
	Limit int  `short:"n" help:"Show at most N workouts (0 for all)." default:"0"`
	All   bool `help:"Include the workout in progress and the routine draft."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	unit := ctx.WeightUnit()
	cur := ctx.Store.CurrentWorkout().Get()

	if cur != nil {
		fmt.Println("In progress:")
		fmt.Println("  " + formatSummary(*cur, unit))
		fmt.Println()
	}
	if c.All {
		if d := ctx.Store.RoutineDraft().Get(); d != nil {
			fmt.Println("Routine draft:")
			fmt.Println("  " + formatSummary(*d, unit))
			fmt.Println()
		}
	}

	history := ctx.Store.History()
	if c.Limit > 0 && len(history) > c.Limit {
		history = history[:c.Limit]
	}
	if len(history) == 0 {
		fmt.Println("No workouts logged yet.")
		return nil
	}

	fmt.Printf("History (%d):\n", len(history))
	for _, w := range history {
		fmt.Println("  " + formatSummary(w, unit))
	}
	return nil
}

func formatSummary(w models.Workout, unit string) string {
	status := "…"
	if w.Completed {
		status = "✓"
	}
	duration := "-"
	if w.Duration != nil {
		duration = utils.FormatDuration(*w.Duration)
	}
	return fmt.Sprintf("%s %s  %s  %-20s %2d ex  %3d sets  %8s  %s",
		status,
		cli.ShortID(w.ID),
		w.Date.Local().Format(constants.DateTimeFormat),
		w.Name,
		len(w.Exercises),
		w.SetCount(),
		duration,
		utils.FormatVolume(w.Volume(), unit),
	)
}

type ShowCmd struct {
	ID string `arg:"" optional:"" default:"current" help:"Workout id, id prefix, 'current' or 'draft'."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	w, err := ctx.ResolveWorkout(c.ID)
	if err != nil {
		return err
	}
	PrintWorkout(w, ctx.WeightUnit())
	return nil
}

// PrintWorkout writes a workout with its exercises and sets to stdout.
func PrintWorkout(w models.Workout, unit string) {
	fmt.Printf("%s  (%s)\n", w.Name, w.ID)
	fmt.Printf("  Date:     %s\n", w.Date.Local().Format(constants.DateTimeFormat))
	if w.Completed && w.EndTime != nil {
		elapsed := w.ElapsedMinutes()
		if w.Duration != nil {
			elapsed = *w.Duration
		}
		fmt.Printf("  Finished: %s (%s)\n", w.EndTime.Local().Format(constants.DateTimeFormat), utils.FormatDuration(elapsed))
	} else if !w.Completed {
		fmt.Printf("  Status:   in progress for %s\n", utils.FormatDuration(int(time.Since(w.StartTime).Minutes())))
	}
	fmt.Printf("  Volume:   %s over %d sets\n", utils.FormatVolume(w.Volume(), unit), w.SetCount())
	if w.Notes != "" {
		fmt.Printf("  Notes:    %s\n", w.Notes)
	}

	if len(w.Exercises) == 0 {
		fmt.Println("\n  No exercises yet. Add one with 'liftlog exercise add'.")
		return
	}
	for i, e := range w.Exercises {
		fmt.Printf("\n  %d. %s  (%s)\n", i+1, e.Name, cli.ShortID(e.ID))
		if len(e.Sets) == 0 {
			fmt.Println("     no sets")
		}
		for j, s := range e.Sets {
			fmt.Printf("     %s\n", cli.FormatSet(j+1, s, unit))
		}
	}
}

type EditCmd struct {
	ID    string  `arg:"" optional:"" default:"current" help:"Workout id, id prefix, 'current' or 'draft'."`
	Name  *string `help:"New name."`
	Notes *string `help:"Replace the notes."`
	Date  string  `help:"Move the workout to another day (YYYY-MM-DD), keeping its time of day."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	w, err := ctx.ResolveWorkout(c.ID)
	if err != nil {
		return err
	}
	if c.Name == nil && c.Notes == nil && c.Date == "" {
		return fmt.Errorf("nothing to change, pass --name, --notes or --date")
	}

	if c.Name != nil {
		w.Name = strings.TrimSpace(*c.Name)
	}
	if c.Notes != nil {
		w.Notes = strings.TrimSpace(*c.Notes)
	}
	if c.Date != "" {
		day, err := utils.ParseDate(c.Date, w.Date.Location())
		if err != nil {
			return err
		}
		shift := day.Sub(time.Date(w.Date.Year(), w.Date.Month(), w.Date.Day(), 0, 0, 0, 0, w.Date.Location()))
		w.Date = w.Date.Add(shift)
		w.StartTime = w.StartTime.Add(shift)
		if w.EndTime != nil {
			end := w.EndTime.Add(shift)
			w.EndTime = &end
		}
	}

	if err := w.Validate(); err != nil {
		return err
	}
	if !ctx.Store.UpdateWorkout(w) {
		return fmt.Errorf("workout %s no longer exists", w.ID)
	}
	fmt.Printf("✓ Updated \"%s\"\n", w.Name)
	return ctx.Flush()
}

type FinishCmd struct {
	ID string `arg:"" optional:"" default:"current" help:"Workout id, id prefix or 'current'. The routine draft cannot be finished."`
}

func (c *FinishCmd) Run(ctx *cli.Context) error {
	w, err := ctx.ResolveWorkout(c.ID)
	if err != nil {
		return err
	}
	if isDraft(ctx, w.ID) {
		return errDraftNotWorkout
	}
	if w.Completed {
		return fmt.Errorf("\"%s\" is already finished", w.Name)
	}
	if !ctx.Store.CompleteWorkout(w.ID) {
		return fmt.Errorf("failed to finish \"%s\"", w.Name)
	}

	done, _ := ctx.Store.FindWorkout(w.ID)
	minutes := 0
	if done.Duration != nil {
		minutes = *done.Duration
	}
	fmt.Printf("✓ Finished \"%s\" in %s: %d sets, %s\n",
		done.Name, utils.FormatDuration(minutes), done.SetCount(), utils.FormatVolume(done.Volume(), ctx.WeightUnit()))
	return ctx.Flush()
}

type DiscardCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *DiscardCmd) Run(ctx *cli.Context) error {
	cur := ctx.Store.CurrentWorkout().Get()
	if cur == nil {
		return cli.ErrNoCurrentWorkout
	}
	if !c.Yes && !cli.Confirm(fmt.Sprintf("Discard \"%s\" and everything logged in it?", cur.Name)) {
		fmt.Println("Discard cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	ctx.Store.DeleteWorkout(cur.ID)
	fmt.Printf("✓ Discarded \"%s\"\n", cur.Name)
	return ctx.Flush()
}

type DeleteCmd struct {
	ID  string `arg:"" help:"Workout id or id prefix."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	w, err := ctx.ResolveWorkout(c.ID)
	if err != nil {
		return err
	}
	if !c.Yes && !cli.Confirm(fmt.Sprintf("Delete \"%s\" from %s?", w.Name, w.Date.Local().Format(constants.DateFormat))) {
		fmt.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	ctx.Store.DeleteWorkout(w.ID)
	fmt.Printf("✓ Deleted \"%s\"\n", w.Name)
	return ctx.Flush()
}

type ResumeCmd struct {
	ID string `arg:"" help:"Workout id or id prefix."`
}

func (c *ResumeCmd) Run(ctx *cli.Context) error {
	w, err := ctx.ResolveWorkout(c.ID)
	if err != nil {
		return err
	}
	if isDraft(ctx, w.ID) {
		return errDraftNotWorkout
	}
	if !ctx.Store.SetCurrentWorkout(w.ID) {
		return fmt.Errorf("failed to resume \"%s\"", w.Name)
	}
	fmt.Printf("✓ \"%s\" is now the current workout\n", w.Name)
	return ctx.Flush()
}

func isDraft(ctx *cli.Context, id string) bool {
	d := ctx.Store.RoutineDraft().Get()
	return d != nil && d.ID == id
}
