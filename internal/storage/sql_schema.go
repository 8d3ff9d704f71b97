package storage

import (
	"fmt"
	"io/fs"

	"github.com/julianstephens/liftlog/internal/migration"
)

// MigrationsFor returns the embedded migration directory for a dialect.
func MigrationsFor(root fs.FS, d migration.Dialect) (fs.FS, error) {
	sub, err := fs.Sub(root, d.String())
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", d, err)
	}
	return sub, nil
}

func (s SQLItems) runner() (*migration.Runner, error) {
	if s.DB == nil {
		return nil, ErrNotLoaded
	}
	if s.Migrations == nil {
		return nil, fmt.Errorf("no migrations configured for %s", s.Dialect)
	}
	return migration.NewRunner(s.DB, s.Migrations, s.Dialect), nil
}

// Migrate applies pending migrations and returns how many ran.
func (s SQLItems) Migrate(progress func(string)) (int, error) {
	r, err := s.runner()
	if err != nil {
		return 0, err
	}
	return r.Apply(progress)
}

// SchemaStatus compares the database with the embedded migrations.
func (s SQLItems) SchemaStatus() (migration.Status, error) {
	r, err := s.runner()
	if err != nil {
		return migration.Status{}, err
	}
	return r.Status()
}

// CheckSchema refuses a database written by a newer liftlog.
func (s SQLItems) CheckSchema() error {
	r, err := s.runner()
	if err != nil {
		return err
	}
	return r.Check()
}
