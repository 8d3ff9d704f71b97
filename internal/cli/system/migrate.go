package system

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/migration"
)

// migrator is implemented by the SQL providers.
type migrator interface {
	schemaReporter
	Migrate(progress func(string)) (int, error)
}

type MigrateCmd struct {
	Status bool `help:"Show the schema version and pending migrations without applying them."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Provider.(migrator)
	if !ok {
		return fmt.Errorf("migrate only applies to the sqlite and postgres drivers")
	}

	if c.Status {
		st, err := m.SchemaStatus()
		if err != nil {
			return err
		}
		printStatus(st)
		return nil
	}

	ctx.PerformAutomaticBackup()
	count, err := m.Migrate(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count > 0 {
		fmt.Printf("\n✓ Applied %d migration(s)\n", count)
	}
	return nil
}

func printStatus(st migration.Status) {
	fmt.Printf("Schema version: %d (latest %d)\n", st.Current, st.Latest)
	if !st.LastApplied.IsZero() {
		fmt.Printf("Last migrated:  %s\n", humanize.Time(st.LastApplied))
	}
	if len(st.Pending) == 0 {
		fmt.Println("✓ No pending migrations")
		return
	}
	fmt.Printf("⚠ %d pending:\n", len(st.Pending))
	for _, p := range st.Pending {
		fmt.Printf("  %s\n", p)
	}
}
