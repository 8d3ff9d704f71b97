package system

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/utils"
)

type StatsCmd struct {
	Recent *int `short:"n" help:"Number of recent workouts to list (default from config)."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	stats := ctx.Store.Stats().Get()
	unit := ctx.WeightUnit()

	fmt.Printf("Workouts completed: %d\n", stats.TotalWorkouts)
	fmt.Printf("Exercises logged:   %d\n", stats.TotalExercises)
	fmt.Printf("Sets logged:        %d\n", stats.TotalSets)
	fmt.Printf("Total volume:       %s\n", utils.FormatVolume(stats.TotalVolume, unit))
	fmt.Printf("Average duration:   %s\n", utils.FormatDuration(int(math.Round(stats.AverageDuration))))

	n := 5
	if ctx.Config != nil {
		n = ctx.Config.Workout.RecentCount
	}
	if c.Recent != nil {
		n = *c.Recent
	}
	recent := ctx.Store.RecentWorkouts(n)
	if len(recent) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Recent:")
	now := time.Now()
	for _, w := range recent {
		fmt.Printf("  %-12s %-24s %3d sets  %s\n",
			utils.FormatWorkoutDate(w.Date, now), w.Name, w.SetCount(), utils.FormatVolume(w.Volume(), unit))
	}
	return nil
}
