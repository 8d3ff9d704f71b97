package backups

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/liftlog/internal/backup"
	"github.com/julianstephens/liftlog/internal/cli"
	clierrors "github.com/julianstephens/liftlog/internal/errors"
)

var errNoBackups = clierrors.WithHint(
	errors.New("backups are not available for in-memory storage"),
	"switch storage.driver to json, sqlite or postgres")

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if ctx.Backups == nil {
		return nil, errNoBackups
	}
	return ctx.Backups, nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Printf("✓ Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct {
	Limit int `short:"n" help:"Show only the N most recent backups." default:"0"`
}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	list, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(list) == 0 {
		fmt.Printf("No backups in %s\n", mgr.GetBackupDir())
		return nil
	}

	shown := list
	if c.Limit > 0 && c.Limit < len(shown) {
		shown = shown[:c.Limit]
	}
	for i, b := range shown {
		fmt.Printf("%3d  %s  %-34s %8s  %s\n",
			i+1,
			b.Timestamp.Format("2006-01-02 15:04"),
			filepath.Base(b.Path),
			humanize.Bytes(uint64(b.Size)),
			humanize.Time(b.Timestamp))
	}
	if hidden := len(list) - len(shown); hidden > 0 {
		fmt.Printf("     ... %d older\n", hidden)
	}
	fmt.Printf("\n%s (retention %d)\n", mgr.GetBackupDir(), retention(ctx))
	return nil
}

func retention(ctx *cli.Context) int {
	if ctx.Config == nil {
		return 0
	}
	return ctx.Config.Backup.Keep
}

type BackupRestoreCmd struct {
	Backup string `arg:"" default:"latest" help:"Backup to restore: latest, a list index, a file name or a path."`
	Yes    bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	path, err := resolve(mgr, c.Backup)
	if err != nil {
		return err
	}
	sum, err := backup.Inspect(path)
	if err != nil {
		return fmt.Errorf("%s is corrupted or invalid: %w", filepath.Base(path), err)
	}

	fmt.Printf("Restore %s (taken %s, %d keys)\n", filepath.Base(path), humanize.Time(sum.CreatedAt), len(sum.Keys))
	fmt.Println("⚠ Every workout and routine will be replaced. Current data is backed up first.")
	if !c.Yes && !cli.Confirm("Continue?") {
		fmt.Println("Restore cancelled.")
		return nil
	}

	previous, err := mgr.RestoreBackup(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if ctx.Store != nil {
		ctx.Store.Reload()
	}
	fmt.Printf("✓ Restored %s\n", filepath.Base(path))
	fmt.Printf("ℹ Previous data saved as %s\n", filepath.Base(previous))
	return nil
}

type BackupVerifyCmd struct {
	Backup string `arg:"" default:"latest" help:"Backup to check: latest, a list index, a file name or a path."`
}

func (c *BackupVerifyCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	path, err := resolve(mgr, c.Backup)
	if err != nil {
		return err
	}
	sum, err := backup.Inspect(path)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	fmt.Printf("✓ %s is a valid backup\n", filepath.Base(path))
	if sum.Source != "" {
		fmt.Printf("  source: %s\n", sum.Source)
	}
	fmt.Printf("  keys:   %s\n", strings.Join(sum.Keys, ", "))
	return nil
}

// resolve turns a restore/verify argument into a backup file path.
// "latest" and 1-based indexes refer to ListBackups order; other names are
// looked up in the backup directory before being used as a path.
func resolve(mgr *backup.Manager, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "latest" {
		name = "1"
	}
	if n, err := strconv.Atoi(name); err == nil {
		list, err := mgr.ListBackups()
		if err != nil {
			return "", fmt.Errorf("failed to list backups: %w", err)
		}
		if n < 1 || n > len(list) {
			return "", clierrors.WithHint(
				fmt.Errorf("no backup #%d (%d available)", n, len(list)),
				"run 'liftlog backup list' to see them")
		}
		return list[n-1].Path, nil
	}

	if !filepath.IsAbs(name) {
		inDir := filepath.Join(mgr.GetBackupDir(), name)
		if _, err := os.Stat(inDir); err == nil {
			return inDir, nil
		}
	}
	if _, err := os.Stat(name); err != nil {
		return "", clierrors.WithHint(
			fmt.Errorf("backup file not found: %s", name),
			"run 'liftlog backup list' to see available backups")
	}
	return name, nil
}
