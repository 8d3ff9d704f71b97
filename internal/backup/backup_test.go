package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/storage"
)

func setupProvider(t *testing.T) *storage.MemoryStore {
	t.Helper()
	p := storage.NewMemoryStore()
	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	items := map[string]string{
		constants.WorkoutsKey:  `[{"id":"w1","name":"Push"}]`,
		constants.TemplatesKey: `[{"id":"t1","name":"Legs","exercises":[]}]`,
	}
	for k, v := range items {
		if err := p.SetItem(k, []byte(v)); err != nil {
			t.Fatalf("SetItem: %v", err)
		}
	}
	return p
}

// stepClock advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	t := start.Add(-step)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func newTestManager(t *testing.T, p storage.Provider, keep int) *Manager {
	t.Helper()
	mgr := NewManager(p, filepath.Join(t.TempDir(), constants.BackupDirName), keep)
	mgr.now = stepClock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.Local), time.Hour)
	return mgr
}

func TestCreateBackup(t *testing.T) {
	p := setupProvider(t)
	mgr := newTestManager(t, p, 0)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if got := filepath.Base(backupPath); got != "liftlog-20260401-0800.json" {
		t.Errorf("backup name = %s", got)
	}
	info, err := os.Stat(backupPath)
	if err != nil {
		t.Fatalf("backup file was not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("backup permissions = %o, want 600", perm)
	}

	snap, err := readSnapshot(backupPath)
	if err != nil {
		t.Fatalf("readSnapshot: %v", err)
	}
	if snap.Source != "memory" {
		t.Errorf("Source = %q", snap.Source)
	}
	if got := string(snap.Items[constants.WorkoutsKey]); got != `[{"id":"w1","name":"Push"}]` {
		t.Errorf("workouts in backup = %s", got)
	}
	if len(snap.Items) != 2 {
		t.Errorf("backup holds %d keys, want 2", len(snap.Items))
	}
}

func TestBackupNameCollisions(t *testing.T) {
	p := setupProvider(t)
	mgr := newTestManager(t, p, 0)
	fixed := time.Date(2026, 4, 1, 8, 0, 30, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	var names []string
	for i := 0; i < 3; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d: %v", i, err)
		}
		names = append(names, filepath.Base(path))
	}

	want := []string{
		"liftlog-20260401-0800.json",
		"liftlog-20260401-080030.json",
		"liftlog-20260401-080030-1.json",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("backup names (-want +got):\n%s", diff)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Errorf("ListBackups found %d, want 3", len(backups))
	}
}

func TestBackupRotation(t *testing.T) {
	p := setupProvider(t)
	mgr := newTestManager(t, p, 0)

	numBackups := constants.MaxBackups + 5
	for i := 0; i < numBackups; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}

	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups are not sorted correctly: backup %d is newer than backup %d", i, i-1)
		}
	}

	// the five oldest were removed
	oldest := backups[len(backups)-1].Timestamp
	if want := time.Date(2026, 4, 1, 13, 0, 0, 0, time.Local); !oldest.Equal(want) {
		t.Errorf("oldest kept backup = %v, want %v", oldest, want)
	}
}

func TestCustomKeep(t *testing.T) {
	mgr := newTestManager(t, setupProvider(t), 2)
	for i := 0; i < 4; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatal(err)
		}
	}
	backups, _ := mgr.ListBackups()
	if len(backups) != 2 {
		t.Errorf("kept %d backups, want 2", len(backups))
	}
}

func TestListBackups(t *testing.T) {
	mgr := newTestManager(t, setupProvider(t), 0)

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups on missing dir: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"liftlog-20260101-1200.json",
		"liftlog-20260102-120000.json",
		"liftlog-20260102-120000-2.json",
		"liftlog-notadate.json",
		"other-20260101-1200.json",
		"liftlog-20260101-1200.db",
	} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, b := range backups {
		got = append(got, filepath.Base(b.Path))
	}
	want := []string{
		"liftlog-20260102-120000.json",
		"liftlog-20260102-120000-2.json",
		"liftlog-20260101-1200.json",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListBackups (-want +got):\n%s", diff)
	}
}

func TestRestoreBackup(t *testing.T) {
	p := setupProvider(t)
	mgr := newTestManager(t, p, 0)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}

	_ = p.SetItem(constants.WorkoutsKey, []byte(`[]`))
	_ = p.SetItem(constants.SessionKey, []byte(`{"currentWorkoutId":"x"}`))

	previous, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}

	got, _ := p.GetItem(constants.WorkoutsKey)
	if string(got) != `[{"id":"w1","name":"Push"}]` {
		t.Errorf("workouts after restore = %s", got)
	}
	if _, err := p.GetItem(constants.SessionKey); err == nil {
		t.Error("key absent from the backup survived the restore")
	}

	pre, err := readSnapshot(previous)
	if err != nil {
		t.Fatalf("pre-restore snapshot unreadable: %v", err)
	}
	if string(pre.Items[constants.WorkoutsKey]) != `[]` {
		t.Errorf("pre-restore snapshot = %s", pre.Items[constants.WorkoutsKey])
	}
}

func TestRestoreBackupErrors(t *testing.T) {
	p := setupProvider(t)
	mgr := newTestManager(t, p, 0)
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "liftlog-20260101-1200.json")
	if err := os.WriteFile(corrupt, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	future := filepath.Join(dir, "future.json")
	if err := os.WriteFile(future, []byte(`{"version":99,"items":{}}`), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "missing", path: filepath.Join(dir, "nope.json"), want: "does not exist"},
		{name: "corrupt", path: corrupt, want: "corrupted or invalid"},
		{name: "newer version", path: future, want: "unsupported backup version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mgr.RestoreBackup(tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("RestoreBackup error = %v, want it to mention %q", err, tt.want)
			}
		})
	}

	got, _ := p.GetItem(constants.WorkoutsKey)
	if string(got) != `[{"id":"w1","name":"Push"}]` {
		t.Errorf("failed restore changed data: %s", got)
	}
}

func TestInspect(t *testing.T) {
	p := setupProvider(t)
	mgr := newTestManager(t, p, 0)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}
	sum, err := Inspect(backupPath)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if diff := cmp.Diff([]string{constants.TemplatesKey, constants.WorkoutsKey}, sum.Keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if want := time.Date(2026, 4, 1, 8, 0, 0, 0, time.Local).UTC(); !sum.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", sum.CreatedAt, want)
	}
	if sum.Source != p.GetConfigPath() {
		t.Errorf("Source = %q", sum.Source)
	}
}
