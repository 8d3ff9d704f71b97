package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/storage"
)

type DebugCmd struct {
	DataPath    *DebugDataPathCmd    `cmd:"" help:"Show storage location and driver."`
	Keys        *DebugKeysCmd        `cmd:"" help:"List stored keys."`
	DumpKey     *DebugDumpKeyCmd     `cmd:"" help:"Dump the raw value of a stored key."`
	DumpWorkout *DebugDumpWorkoutCmd `cmd:"" help:"Dump workout data as JSON."`
	DumpRoutine *DebugDumpRoutineCmd `cmd:"" help:"Dump routine data as JSON."`
	DumpStats   *DebugDumpStatsCmd   `cmd:"" help:"Dump computed statistics as JSON."`
}

type DebugDataPathCmd struct{}

func (cmd *DebugDataPathCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"path":   ctx.Provider.GetConfigPath(),
		"driver": driverName(ctx),
	}
	if ctx.Config != nil && ctx.Config.Path() != "" {
		output["config"] = ctx.Config.Path()
	}
	if ctx.Backups != nil {
		output["backups"] = ctx.Backups.GetBackupDir()
	}
	if p := logger.Path(); p != "" {
		output["log"] = p
	}
	return printJSON(output)
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	keys, err := ctx.Provider.Keys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	sort.Strings(keys)
	return printJSON(keys)
}

type DebugDumpKeyCmd struct {
	Key string `arg:"" help:"Storage key."`
}

func (cmd *DebugDumpKeyCmd) Run(ctx *cli.Context) error {
	value, err := ctx.Provider.GetItem(cmd.Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("key not found: %s", cmd.Key)
		}
		return fmt.Errorf("failed to read key: %w", err)
	}
	return printJSON(json.RawMessage(value))
}

type DebugDumpWorkoutCmd struct {
	ID string `arg:"" default:"current" help:"Workout id, id prefix, 'current' or 'draft'."`
}

func (cmd *DebugDumpWorkoutCmd) Run(ctx *cli.Context) error {
	w, err := ctx.ResolveWorkout(cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(w)
}

type DebugDumpRoutineCmd struct {
	ID string `arg:"" help:"Routine id, id prefix or name."`
}

func (cmd *DebugDumpRoutineCmd) Run(ctx *cli.Context) error {
	tpl, err := ctx.ResolveTemplate(cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(tpl)
}

type DebugDumpStatsCmd struct{}

func (cmd *DebugDumpStatsCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx.Store.Stats().Get())
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
