package main

import (
	"errors"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/julianstephens/liftlog/internal/backup"
	"github.com/julianstephens/liftlog/internal/catalog"
	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/cli/backups"
	"github.com/julianstephens/liftlog/internal/cli/exercises"
	"github.com/julianstephens/liftlog/internal/cli/routines"
	"github.com/julianstephens/liftlog/internal/cli/sets"
	"github.com/julianstephens/liftlog/internal/cli/system"
	"github.com/julianstephens/liftlog/internal/cli/workouts"
	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/constants"
	clierrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/lockfile"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/internal/workout"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config_file}"`
	Data    string `help:"Data file path, overrides storage.path."`
	Driver  string `help:"Storage driver: json, sqlite, postgres or memory. Overrides storage.driver."`
	Verbose bool   `name:"debug" help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize liftlog storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Stats   system.StatsCmd   `cmd:"" help:"Show workout statistics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Debug   system.DebugCmd   `cmd:"" help:"Debug commands for troubleshooting."`

	Workout struct {
		Start   workouts.StartCmd   `cmd:"" help:"Start a workout."`
		List    workouts.ListCmd    `cmd:"" help:"List workouts."`
		Show    workouts.ShowCmd    `cmd:"" help:"Show a workout with its sets."`
		Edit    workouts.EditCmd    `cmd:"" help:"Rename, annotate or re-date a workout."`
		Finish  workouts.FinishCmd  `cmd:"" help:"Finish a workout."`
		Discard workouts.DiscardCmd `cmd:"" help:"Delete the workout in progress."`
		Delete  workouts.DeleteCmd  `cmd:"" help:"Delete a workout."`
		Resume  workouts.ResumeCmd  `cmd:"" help:"Make a workout the current one."`
	} `cmd:"" help:"Manage workouts."`
	Exercise struct {
		Add     exercises.AddCmd     `cmd:"" help:"Add an exercise to a workout."`
		Remove  exercises.RemoveCmd  `cmd:"" help:"Remove an exercise."`
		Replace exercises.ReplaceCmd `cmd:"" help:"Swap an exercise for another, keeping its sets."`
		Move    exercises.MoveCmd    `cmd:"" help:"Move an exercise to another position."`
		Search  exercises.SearchCmd  `cmd:"" help:"Search the exercise catalog."`
	} `cmd:"" help:"Manage exercises in a workout."`
	Set struct {
		Add    sets.AddCmd    `cmd:"" help:"Add sets to an exercise."`
		Update sets.UpdateCmd `cmd:"" help:"Change reps, weight, type or completion of a set."`
		Remove sets.RemoveCmd `cmd:"" help:"Remove a set."`
	} `cmd:"" help:"Manage sets."`
	Routine struct {
		Save    routines.SaveCmd    `cmd:"" help:"Save a workout as a routine."`
		List    routines.ListCmd    `cmd:"" help:"List routines."`
		Show    routines.ShowCmd    `cmd:"" help:"Show a routine."`
		Rename  routines.RenameCmd  `cmd:"" help:"Rename a routine."`
		Delete  routines.DeleteCmd  `cmd:"" help:"Delete a routine."`
		Move    routines.MoveCmd    `cmd:"" help:"Move a routine to another position."`
		Start   routines.StartCmd   `cmd:"" help:"Start a workout from a routine."`
		New     routines.NewCmd     `cmd:"" help:"Start composing a routine draft."`
		Edit    routines.EditCmd    `cmd:"" help:"Edit a routine through a draft."`
		Commit  routines.CommitCmd  `cmd:"" help:"Save the routine draft."`
		Discard routines.DiscardCmd `cmd:"" help:"Throw away the routine draft."`
	} `cmd:"" help:"Manage routines."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
		Verify  backups.BackupVerifyCmd  `cmd:"" help:"Check that a backup is readable."`
	} `cmd:"" help:"Manage backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage PostgreSQL credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Workout logger: workouts, sets and reusable routines"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	clierrors.Fatal(run(ctx))
}

func run(ctx *kong.Context) error {
	command := strings.Fields(ctx.Command())[0]

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if CLI.Data != "" {
		cfg.Storage.Path = config.ExpandHome(CLI.Data)
	}
	if CLI.Driver != "" {
		cfg.Storage.Driver = strings.ToLower(CLI.Driver)
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug || CLI.Verbose,
		Level:     cfg.LogLevel,
		ConfigDir: config.ExpandHome(constants.DefaultConfigDir),
		Stderr:    command != "tui",
	}); err != nil {
		logger.InitWriter(os.Stderr, log.WarnLevel)
		logger.Warn("Failed to open log file", "error", err)
	}

	appCtx := &cli.Context{
		Config:  cfg,
		Catalog: catalog.Default(),
	}

	// keyring commands manage credentials and never touch storage
	if command == "keyring" {
		return ctx.Run(appCtx)
	}

	provider, err := cli.NewProvider(cfg)
	if err != nil {
		return err
	}
	defer provider.Close()
	appCtx.Provider = provider

	if cfg.Storage.Driver == constants.DriverJSON {
		lock, err := lockfile.Acquire(cfg.DataPath())
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("Failed to release lockfile", "error", err)
			}
		}()
	}

	if cfg.Storage.Driver != constants.DriverMemory {
		appCtx.Backups = backup.NewManager(provider, backup.DefaultDir(cfg.DataPath()), cfg.Backup.Keep)
	}

	// Init handles its own setup
	if command != "init" {
		if err := load(provider); err != nil {
			return err
		}
		appCtx.Store = workout.NewStore(provider)
		defer appCtx.Store.Close()
	}

	return ctx.Run(appCtx)
}

// load opens existing storage, creating it on first use.
func load(provider storage.Provider) error {
	err := provider.Load()
	if errors.Is(err, storage.ErrNotInitialized) {
		if err := provider.Init(); err != nil {
			return err
		}
		logger.Info("Initialized storage", "path", provider.GetConfigPath())
		return nil
	}
	return err
}
