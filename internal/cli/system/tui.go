package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/tui"
)

type TuiCmd struct {
	Tab string `enum:"dashboard,workouts,routines" default:"dashboard" help:"Tab to open on (dashboard, workouts, routines)."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	model := tui.NewModel(ctx.Store, ctx.Catalog, ctx.WeightUnit())
	if err := model.OpenTab(c.Tab); err != nil {
		return err
	}
	defer model.Close()

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	return ctx.Flush()
}
