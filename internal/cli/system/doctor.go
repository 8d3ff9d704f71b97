package system

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/lockfile"
	"github.com/julianstephens/liftlog/internal/migration"
	"github.com/julianstephens/liftlog/internal/validation"
)

type schemaReporter interface {
	SchemaStatus() (migration.Status, error)
}

type dbHolder interface {
	GetDB() *sql.DB
}

type severity int

const (
	failure severity = iota
	warning
)

// check is one doctor probe. ok is extra detail printed on success.
type check struct {
	name         string
	sev          severity
	needsStorage bool
	run          func(ctx *cli.Context) (ok string, err error)
}

var doctorChecks = []check{
	{name: "Storage reachable", sev: failure, run: checkStorageReachable},
	{name: "Schema version", sev: failure, run: detailless(checkSchema)},
	{name: "Data validation", sev: failure, needsStorage: true, run: detailless(checkValidation)},
	{name: "Backups", sev: warning, run: checkBackupsPresent},
	{name: "Lockfile", sev: warning, run: detailless(checkLockfile)},
	{name: "Clock/timezone", sev: failure, run: func(*cli.Context) (string, error) { return checkClockTimezone() }},
}

func detailless(fn func(*cli.Context) error) func(*cli.Context) (string, error) {
	return func(ctx *cli.Context) (string, error) { return "", fn(ctx) }
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	failed, warned := 0, 0
	reachable := true
	for _, c := range doctorChecks {
		if c.needsStorage && !reachable {
			fmt.Printf("⊘ %s: skipped, storage is not reachable\n", c.name)
			continue
		}

		detail, err := c.run(ctx)
		switch {
		case err == nil && detail != "":
			fmt.Printf("✓ %s (%s)\n", c.name, detail)
		case err == nil:
			fmt.Printf("✓ %s\n", c.name)
		case c.sev == warning:
			warned++
			fmt.Printf("⚠ %s\n   %v\n", c.name, err)
		default:
			failed++
			fmt.Printf("❌ %s\n   %v\n", c.name, err)
			if c.name == "Storage reachable" {
				reachable = false
			}
		}
	}

	fmt.Println()
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed, %d warning(s)", failed, warned)
	}
	if warned > 0 {
		fmt.Printf("No problems found, %d warning(s).\n", warned)
		return nil
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkStorageReachable(ctx *cli.Context) (string, error) {
	keys, err := ctx.Provider.Keys()
	if err != nil {
		return "", fmt.Errorf("failed to list stored keys: %w", err)
	}

	if h, ok := ctx.Provider.(dbHolder); ok {
		db := h.GetDB()
		if db == nil {
			return "", fmt.Errorf("database is not open")
		}
		if err := db.Ping(); err != nil {
			return "", fmt.Errorf("database did not answer: %w", err)
		}
	}
	return fmt.Sprintf("%s, %d keys", ctx.Provider.GetConfigPath(), len(keys)), nil
}

func checkSchema(ctx *cli.Context) error {
	r, ok := ctx.Provider.(schemaReporter)
	if !ok {
		// file and memory providers have no schema
		return nil
	}

	st, err := r.SchemaStatus()
	if err != nil {
		return err
	}
	if st.Current > st.Latest {
		return fmt.Errorf("%w: database is at version %d, this build knows %d", migration.ErrSchemaTooNew, st.Current, st.Latest)
	}
	if !st.UpToDate() {
		names := make([]string, len(st.Pending))
		for i, m := range st.Pending {
			names[i] = m.String()
		}
		return fmt.Errorf("%d pending migration(s) (%s), run 'liftlog migrate'", len(st.Pending), strings.Join(names, ", "))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) (string, error) {
	if ctx.Backups == nil {
		return "", fmt.Errorf("backups are not available for the %s driver", driverName(ctx))
	}
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return "", fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return "", fmt.Errorf("no backups yet, create one with 'liftlog backup create'")
	}
	return fmt.Sprintf("%d, newest %s", len(backups), humanize.Time(backups[0].Timestamp)), nil
}

func checkValidation(ctx *cli.Context) error {
	snap, err := validation.ReadSnapshot(ctx.Provider)
	if err != nil {
		return err
	}

	result := validation.New().Validate(snap)
	if result.HasConflicts() {
		return fmt.Errorf("%d problem(s) found\n%s", len(result.Conflicts), result.FormatReport())
	}
	return nil
}

func checkLockfile(ctx *cli.Context) error {
	if driverName(ctx) != constants.DriverJSON {
		return nil
	}
	holder, err := lockfile.Read(lockfile.Path(ctx.Provider.GetConfigPath()))
	if err != nil {
		// no lockfile, nothing to report
		return nil
	}
	if holder.PID == os.Getpid() {
		return nil
	}
	return fmt.Errorf("lock held by pid %d (%s) since %s", holder.PID, holder.Executable, holder.Since.Format(constants.DateTimeFormat))
}

func checkClockTimezone() (string, error) {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return "", fmt.Errorf("system time looks wrong: %s", now.Format(time.RFC3339))
	}
	zone, _ := now.Zone()
	if now.Location() == time.UTC {
		return "UTC, workout dates are shown in UTC", nil
	}
	return zone, nil
}

func driverName(ctx *cli.Context) string {
	if ctx.Config == nil {
		return "unknown"
	}
	return ctx.Config.Storage.Driver
}
