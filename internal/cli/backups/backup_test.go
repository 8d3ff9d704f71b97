package backups

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/liftlog/internal/backup"
	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/storage/sqlite"
	"github.com/julianstephens/liftlog/internal/workout"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	provider := sqlite.NewStore(dbPath)
	if err := provider.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := provider.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	store := workout.NewStore(provider)
	t.Cleanup(store.Close)

	return &cli.Context{
		Store:    store,
		Provider: provider,
		Config:   config.Default(),
		Backups:  backup.NewManager(provider, backup.DefaultDir(dbPath), 0),
	}
}

func TestBackupCreateAndList(t *testing.T) {
	ctx := setupTestDB(t)
	ctx.Store.CreateWorkout("Push")

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupCreateCmd.Run() = %v", err)
	}
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Fatalf("found %d backups, want 1", len(backups))
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("BackupListCmd.Run() = %v", err)
	}
	if err := (&BackupVerifyCmd{Backup: filepath.Base(backups[0].Path)}).Run(ctx); err != nil {
		t.Errorf("BackupVerifyCmd by name = %v", err)
	}
}

func TestBackupRestoreCmd(t *testing.T) {
	ctx := setupTestDB(t)
	push := ctx.Store.CreateWorkout("Push")
	ctx.Store.CompleteWorkout(push.ID)

	backupPath, err := ctx.Backups.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}

	ctx.Store.DeleteWorkout(push.ID)
	pull := ctx.Store.CreateWorkout("Pull")

	orig := cli.Stdin
	t.Cleanup(func() { cli.Stdin = orig })
	cli.Stdin = strings.NewReader("n\n")
	if err := (&BackupRestoreCmd{Backup: backupPath}).Run(ctx); err != nil {
		t.Fatalf("cancelled restore = %v", err)
	}
	if _, ok := ctx.Store.FindWorkout(pull.ID); !ok {
		t.Fatal("cancelled restore changed the data")
	}

	if err := (&BackupRestoreCmd{Backup: backupPath, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("BackupRestoreCmd.Run() = %v", err)
	}
	if _, ok := ctx.Store.FindWorkout(push.ID); !ok {
		t.Error("restored store is missing the backed-up workout")
	}
	if _, ok := ctx.Store.FindWorkout(pull.ID); ok {
		t.Error("workout created after the backup survived the restore")
	}
	if ctx.Store.CurrentWorkout().Get() != nil {
		t.Error("current workout survived the restore")
	}
}

func TestBackupRestoreCmdRejectsInvalid(t *testing.T) {
	ctx := setupTestDB(t)
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(corrupt, []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := (&BackupRestoreCmd{Backup: filepath.Join(dir, "missing.json"), Yes: true}).Run(ctx); err == nil {
		t.Error("expected an error for a missing backup")
	}
	if err := (&BackupRestoreCmd{Backup: corrupt, Yes: true}).Run(ctx); err == nil {
		t.Error("expected an error for a corrupt backup")
	}
	if err := (&BackupVerifyCmd{Backup: corrupt}).Run(ctx); err == nil {
		t.Error("expected verify to fail for a corrupt backup")
	}
}

func TestBackupCommandsWithoutManager(t *testing.T) {
	ctx := &cli.Context{}
	if err := (&BackupCreateCmd{}).Run(ctx); err != errNoBackups {
		t.Errorf("BackupCreateCmd = %v, want errNoBackups", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != errNoBackups {
		t.Errorf("BackupListCmd = %v, want errNoBackups", err)
	}
}

func TestResolve(t *testing.T) {
	ctx := setupTestDB(t)
	ctx.Store.CreateWorkout("Push")
	older, err := ctx.Backups.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}
	newer := filepath.Join(ctx.Backups.GetBackupDir(), "liftlog-29990101-0000.json")
	data, err := os.ReadFile(older)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newer, data, 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		arg     string
		want    string
		wantErr bool
	}{
		{arg: "latest", want: newer},
		{arg: "", want: newer},
		{arg: "1", want: newer},
		{arg: "2", want: older},
		{arg: filepath.Base(older), want: older},
		{arg: older, want: older},
		{arg: "3", wantErr: true},
		{arg: "0", wantErr: true},
		{arg: "nope.json", wantErr: true},
	}
	for _, tt := range tests {
		got, err := resolve(ctx.Backups, tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolve(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("resolve(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestBackupListLimit(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&BackupListCmd{Limit: 1}).Run(ctx); err != nil {
		t.Errorf("empty list = %v", err)
	}
	if _, err := ctx.Backups.CreateBackup(); err != nil {
		t.Fatal(err)
	}
	if err := (&BackupListCmd{Limit: 1}).Run(ctx); err != nil {
		t.Errorf("list = %v", err)
	}
}
