package migration

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func files(m map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range m {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func hasTable(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n); err != nil {
		t.Fatalf("sqlite_master: %v", err)
	}
	return n == 1
}

const storageTable = "CREATE TABLE local_storage (key TEXT PRIMARY KEY, value TEXT NOT NULL);"

func TestLoad(t *testing.T) {
	got, err := Load(files(map[string]string{
		"010_indexes.sql":      "CREATE INDEX i ON local_storage(key);",
		"001_init.sql":         storageTable,
		"002_updated_at.sql":   "ALTER TABLE local_storage ADD COLUMN updated_at TEXT;",
		"README.md":            "ignored",
		"notes/003_nested.sql": "ignored",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var names []string
	for _, m := range got {
		names = append(names, m.String())
	}
	want := []string{"001_init", "002_updated_at", "010_indexes"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Load order (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"no name", map[string]string{"001.sql": "SELECT 1;"}, "expected NNN_name.sql"},
		{"zero", map[string]string{"000_init.sql": "SELECT 1;"}, "must be at least 1"},
		{"not a number", map[string]string{"one_init.sql": "SELECT 1;"}, "invalid version number"},
		{"duplicate", map[string]string{"001_a.sql": "SELECT 1;", "001_b.sql": "SELECT 2;"}, "duplicate migration version 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(files(tt.files))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	db := openDB(t)
	fsys := files(map[string]string{"001_init.sql": storageTable})
	r := NewRunner(db, fsys, SQLite)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC) }

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status on a fresh database: %v", err)
	}
	if st.Current != 0 || st.Latest != 1 || len(st.Pending) != 1 || st.UpToDate() {
		t.Errorf("fresh status = %+v", st)
	}

	var progress []string
	n, err := r.Apply(func(msg string) { progress = append(progress, msg) })
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if n != 1 || !hasTable(t, db, "local_storage") {
		t.Errorf("Apply ran %d migrations, local_storage present: %v", n, hasTable(t, db, "local_storage"))
	}
	if len(progress) == 0 || !strings.Contains(progress[0], "from version 0 to 1") {
		t.Errorf("progress = %q", progress)
	}

	fsys["002_history.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE history (id INTEGER PRIMARY KEY);")}
	if n, err = r.Apply(nil); err != nil || n != 1 {
		t.Fatalf("second Apply = %d, %v", n, err)
	}
	if n, err = r.Apply(nil); err != nil || n != 0 {
		t.Fatalf("Apply on an up-to-date database = %d, %v", n, err)
	}

	st, err = r.Status()
	if err != nil {
		t.Fatal(err)
	}
	if !st.UpToDate() || st.Current != 2 {
		t.Errorf("final status = %+v", st)
	}
	if want := time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC); !st.LastApplied.Equal(want) {
		t.Errorf("LastApplied = %v, want %v", st.LastApplied, want)
	}

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 2 {
		t.Errorf("schema_version holds %d rows, want one per migration", rows)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	db := openDB(t)
	r := NewRunner(db, files(map[string]string{
		"001_init.sql":   storageTable,
		"002_broken.sql": "CREATE TABLE broken (id INTEGER); NOT SQL AT ALL;",
	}), SQLite)

	n, err := r.Apply(nil)
	if err == nil || !strings.Contains(err.Error(), "002_broken") {
		t.Fatalf("Apply error = %v, want it to name the broken migration", err)
	}
	if n != 1 {
		t.Errorf("Apply reported %d applied, want 1", n)
	}

	v, err := r.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Errorf("CurrentVersion = %d, want 1", v)
	}
	if hasTable(t, db, "broken") {
		t.Error("partial migration was not rolled back")
	}
}

func TestCheckNewerDatabase(t *testing.T) {
	r := NewRunner(openDB(t), files(map[string]string{"001_init.sql": storageTable}), SQLite)

	if err := r.Check(); err != nil {
		t.Errorf("Check on a fresh database: %v", err)
	}
	if err := r.MarkApplied(7); err != nil {
		t.Fatalf("MarkApplied: %v", err)
	}
	if err := r.Check(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Check = %v, want ErrSchemaTooNew", err)
	}
	if _, err := r.Apply(nil); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Apply = %v, want ErrSchemaTooNew", err)
	}
}

func TestDialect(t *testing.T) {
	tests := []struct {
		d    Dialect
		name string
		bind string
		sql  string
	}{
		{SQLite, "sqlite", "?", "INSERT INTO schema_version (version, applied_at) VALUES (?, ?)"},
		{Postgres, "postgres", "$2", "INSERT INTO schema_version (version, applied_at) VALUES ($1, $2)"},
	}
	for _, tt := range tests {
		if tt.d.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.d.String(), tt.name)
		}
		if got := tt.d.Placeholder(2); got != tt.bind {
			t.Errorf("%s Placeholder(2) = %q, want %q", tt.name, got, tt.bind)
		}
		if got := NewRunner(nil, nil, tt.d).recordSQL(); got != tt.sql {
			t.Errorf("%s recordSQL() = %q", tt.name, got)
		}
	}
}
