// Package migration applies the numbered SQL files that define the
// local_storage schema of the sqlite and postgres providers.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrSchemaTooNew is returned when the database was migrated by a newer
// liftlog than the one running.
var ErrSchemaTooNew = errors.New("database schema is newer than this liftlog supports")

// Migration is one NNN_name.sql file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

func (m Migration) String() string {
	return fmt.Sprintf("%03d_%s", m.Version, m.Name)
}

// Dialect selects the bind placeholder style of the target database.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// Placeholder returns the bind parameter for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Status compares the database against the embedded migrations.
type Status struct {
	Current     int
	Latest      int
	LastApplied time.Time
	Pending     []Migration
}

// UpToDate reports whether every migration has been applied.
func (s Status) UpToDate() bool {
	return s.Current == s.Latest
}

// Runner applies migrations from files to db. The schema_version table
// keeps one row per applied version.
type Runner struct {
	db      *sql.DB
	files   fs.FS
	dialect Dialect
	now     func() time.Time
}

func NewRunner(db *sql.DB, files fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, files: files, dialect: dialect, now: time.Now}
}

func (r *Runner) ensureVersionTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion is the highest applied version, 0 for a fresh database.
func (r *Runner) CurrentVersion() (int, error) {
	version, _, err := r.current()
	return version, err
}

func (r *Runner) current() (int, time.Time, error) {
	if err := r.ensureVersionTable(); err != nil {
		return 0, time.Time{}, err
	}

	var (
		version   sql.NullInt64
		appliedAt sql.NullString
	)
	err := r.db.QueryRow(
		"SELECT version, applied_at FROM schema_version ORDER BY version DESC LIMIT 1",
	).Scan(&version, &appliedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, time.Time{}, nil
	}
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to read schema version: %w", err)
	}

	var at time.Time
	if appliedAt.Valid {
		at, _ = time.Parse(time.RFC3339, appliedAt.String)
	}
	return int(version.Int64), at, nil
}

// MarkApplied records version as applied without running anything.
func (r *Runner) MarkApplied(version int) error {
	if err := r.ensureVersionTable(); err != nil {
		return err
	}
	_, err := r.db.Exec(r.recordSQL(), version, r.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

func (r *Runner) recordSQL() string {
	return fmt.Sprintf("INSERT INTO schema_version (version, applied_at) VALUES (%s, %s)",
		r.dialect.Placeholder(1), r.dialect.Placeholder(2))
}

// Load parses every *.sql file in files, sorted by version.
func Load(files fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, name, err := parseName(entry.Name())
		if err != nil {
			return nil, err
		}
		content, err := fs.ReadFile(files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(content)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d (%s and %s)", out[i].Version, out[i-1], out[i])
		}
	}
	return out, nil
}

// parseName splits "001_init.sql" into 1 and "init".
func parseName(filename string) (int, string, error) {
	stem, name, ok := strings.Cut(strings.TrimSuffix(filename, ".sql"), "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid migration filename %s, expected NNN_name.sql", filename)
	}
	version, err := strconv.Atoi(stem)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in %s: %w", filename, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in %s: must be at least 1", filename)
	}
	return version, name, nil
}

// Status reports the applied version and the migrations still to run.
func (r *Runner) Status() (Status, error) {
	all, err := Load(r.files)
	if err != nil {
		return Status{}, err
	}
	current, at, err := r.current()
	if err != nil {
		return Status{}, err
	}

	st := Status{Current: current, LastApplied: at}
	if len(all) > 0 {
		st.Latest = all[len(all)-1].Version
	}
	for _, m := range all {
		if m.Version > current {
			st.Pending = append(st.Pending, m)
		}
	}
	return st, nil
}

// Check fails with ErrSchemaTooNew when the database is ahead of the
// embedded migrations. A database that is behind is accepted.
func (r *Runner) Check() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	return tooNew(st)
}

func tooNew(st Status) error {
	if st.Current > st.Latest {
		return fmt.Errorf("%w: database is at version %d, latest known is %d, upgrade liftlog", ErrSchemaTooNew, st.Current, st.Latest)
	}
	return nil
}

// Apply runs every pending migration in order, each in its own
// transaction, and returns how many were applied. progress may be nil.
func (r *Runner) Apply(progress func(string)) (int, error) {
	if progress == nil {
		progress = func(string) {}
	}

	st, err := r.Status()
	if err != nil {
		return 0, err
	}
	if err := tooNew(st); err != nil {
		return 0, err
	}
	if len(st.Pending) == 0 {
		progress(fmt.Sprintf("Database schema is up to date (version %d)", st.Current))
		return 0, nil
	}

	progress(fmt.Sprintf("Migrating %s schema from version %d to %d", r.dialect, st.Current, st.Latest))
	start := time.Now()
	for i, m := range st.Pending {
		progress(fmt.Sprintf("  Applying %s", m))
		if err := r.applyOne(m); err != nil {
			return i, err
		}
	}
	progress(fmt.Sprintf("Applied %d migration(s) in %v", len(st.Pending), time.Since(start).Round(time.Millisecond)))
	return len(st.Pending), nil
}

func (r *Runner) applyOne(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", m, err)
	}
	if _, err := tx.Exec(m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %s failed: %w", m, err)
	}
	if _, err := tx.Exec(r.recordSQL(), m.Version, r.now().UTC().Format(time.RFC3339)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record migration %s: %w", m, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", m, err)
	}
	return nil
}
