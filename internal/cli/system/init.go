package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/internal/workout"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing data file before initializing."`
	Source string `help:"Data file, SQLite database or PostgreSQL connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized liftlog storage at: %s\n", ctx.Provider.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
	}

	if ctx.Store != nil {
		ctx.Store.Reload()
	}
	return nil
}

// reset removes the data file of file-backed drivers.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if ctx.Config == nil {
		return nil
	}
	switch ctx.Config.Storage.Driver {
	case constants.DriverJSON, constants.DriverSQLite:
	default:
		return fmt.Errorf("--force only applies to the json and sqlite drivers")
	}

	dataPath := ctx.Provider.GetConfigPath()
	if c.Source != "" {
		absData, err := filepath.Abs(dataPath)
		if err == nil {
			dataPath = absData
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dataPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dataPath)
		}
	}

	if _, err := os.Stat(dataPath); err == nil {
		if err := ctx.Provider.Close(); err != nil {
			return fmt.Errorf("failed to close existing storage: %w", err)
		}
		if err := os.Remove(dataPath); err != nil {
			return fmt.Errorf("failed to delete existing storage: %w", err)
		}
		fmt.Printf("Deleted existing storage at: %s\n", dataPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing storage: %w", err)
	}
	return nil
}

func (c *InitCmd) copyData(ctx *cli.Context) error {
	source, err := cli.OpenSource(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source: %w", err)
	}
	defer source.Close()

	keys, err := source.Keys()
	if err != nil {
		return fmt.Errorf("failed to list source keys: %w", err)
	}
	for _, key := range keys {
		value, err := source.GetItem(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := ctx.Provider.SetItem(key, value); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	// Decode through the store so malformed data is reported now.
	imported := workout.NewStore(ctx.Provider)
	defer imported.Close()
	fmt.Printf("  Copied %d keys: %d workouts, %d routines\n",
		len(keys), len(imported.Workouts().Get()), len(imported.Templates().Get()))
	return nil
}
