package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/storage"
)

const snapshotVersion = 1

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// snapshot is the on-disk backup format: every provider key with its raw
// JSON value.
type snapshot struct {
	Version   int                        `json:"version"`
	CreatedAt time.Time                  `json:"createdAt"`
	Source    string                     `json:"source"`
	Items     map[string]json.RawMessage `json:"items"`
}

// Manager handles backup operations
type Manager struct {
	provider  storage.Provider
	backupDir string
	keep      int
	now       func() time.Time
}

// NewManager creates a backup manager writing snapshots of provider into
// backupDir and keeping at most keep of them. keep <= 0 means
// constants.MaxBackups.
func NewManager(provider storage.Provider, backupDir string, keep int) *Manager {
	if keep <= 0 {
		keep = constants.MaxBackups
	}
	return &Manager{
		provider:  provider,
		backupDir: backupDir,
		keep:      keep,
		now:       time.Now,
	}
}

// DefaultDir is the backup directory next to the data file at dataPath.
func DefaultDir(dataPath string) string {
	return filepath.Join(filepath.Dir(dataPath), constants.BackupDirName)
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// ensureBackupDir creates the backup directory if it doesn't exist
func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup writes a snapshot of every stored key
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// createBackup writes a new snapshot.
// skipRotation is set for the pre-restore snapshot so restoring never
// rotates away the backup being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	snap, err := m.capture()
	if err != nil {
		return "", err
	}

	backupPath, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := writeFileAtomic(backupPath, data); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	logger.Info("Created backup", "path", backupPath, "keys", len(snap.Items))
	return backupPath, nil
}

func (m *Manager) capture() (snapshot, error) {
	keys, err := m.provider.Keys()
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to list stored keys: %w", err)
	}

	snap := snapshot{
		Version:   snapshotVersion,
		CreatedAt: m.now().UTC(),
		Source:    m.provider.GetConfigPath(),
		Items:     make(map[string]json.RawMessage, len(keys)),
	}
	for _, key := range keys {
		value, err := m.provider.GetItem(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return snapshot{}, fmt.Errorf("failed to read %s: %w", key, err)
		}
		snap.Items[key] = json.RawMessage(value)
	}
	return snap, nil
}

// nextBackupPath picks liftlog-YYYYMMDD-HHMM.json, falling back to
// seconds precision and then a counter when the name is taken.
func (m *Manager) nextBackupPath() (string, error) {
	now := m.now()
	timestamp := now.Format("20060102-1504")
	backupPath := m.pathFor(timestamp)

	if _, err := os.Stat(backupPath); err == nil {
		timestamp = now.Format("20060102-150405")
		backupPath = m.pathFor(timestamp)

		counter := 1
		for {
			if _, err := os.Stat(backupPath); os.IsNotExist(err) {
				break
			}
			backupPath = m.pathFor(fmt.Sprintf("%s-%d", timestamp, counter))
			counter++
			if counter > 100 {
				return "", fmt.Errorf("failed to generate unique backup filename")
			}
		}
	}
	return backupPath, nil
}

func (m *Manager) pathFor(stamp string) string {
	return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
}

// ListBackups returns a list of all available backups, sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		timestamp, ok := parseBackupName(name)
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      path,
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// parseBackupName extracts the timestamp from a backup file name.
// Accepted forms: YYYYMMDD-HHMM, YYYYMMDD-HHMMSS, and either with a -N
// counter suffix.
func parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	parts := strings.Split(stamp, "-")
	if len(parts) == 3 && isDigits(parts[2]) {
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if t, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	if len(backups) <= m.keep {
		return nil
	}

	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}

	return nil
}

// RestoreBackup replaces every stored key with the contents of the backup
// at backupPath. The current state is snapshotted first and that path is
// returned. Callers holding a workout.Store must Reload it afterwards.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	snap, err := readSnapshot(backupPath)
	if err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	current, err := m.createBackup(true)
	if err != nil {
		return "", fmt.Errorf("failed to backup current data before restore: %w", err)
	}

	existing, err := m.provider.Keys()
	if err != nil {
		return current, fmt.Errorf("failed to list stored keys: %w", err)
	}
	for _, key := range existing {
		if _, keep := snap.Items[key]; keep {
			continue
		}
		if err := m.provider.RemoveItem(key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return current, fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}

	keys := make([]string, 0, len(snap.Items))
	for key := range snap.Items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := m.provider.SetItem(key, snap.Items[key]); err != nil {
			return current, fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}

	logger.Info("Restored backup", "path", backupPath, "keys", len(keys), "previous", current)
	return current, nil
}

// VerifyBackup checks that path holds a readable snapshot.
func VerifyBackup(path string) error {
	_, err := readSnapshot(path)
	return err
}

// Summary describes the contents of a snapshot without restoring it.
type Summary struct {
	CreatedAt time.Time
	Source    string
	Keys      []string
}

// Inspect reads the snapshot at path and reports what it holds.
func Inspect(path string) (Summary, error) {
	snap, err := readSnapshot(path)
	if err != nil {
		return Summary{}, err
	}
	keys := make([]string, 0, len(snap.Items))
	for key := range snap.Items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return Summary{CreatedAt: snap.CreatedAt, Source: snap.Source, Keys: keys}, nil
}

func readSnapshot(path string) (snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot{}, err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snapshot{}, err
	}
	if snap.Version == 0 || snap.Version > snapshotVersion {
		return snapshot{}, fmt.Errorf("unsupported backup version %d", snap.Version)
	}
	if snap.Items == nil {
		snap.Items = map[string]json.RawMessage{}
	}
	return snap, nil
}

// writeFileAtomic writes through a temporary file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return err
	}
	return nil
}
