// Package lockfile keeps two liftlog processes from writing the same JSON
// data file at once.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	pidFunc         = os.Getpid
	nowFunc         = time.Now
)

// ErrLocked is returned when another live liftlog process holds the lock.
var ErrLocked = errors.New("data file is in use by another liftlog process")

// Lock is a held lockfile.
type Lock struct {
	path string
	pid  int
}

// Holder describes the process recorded in a lockfile.
type Holder struct {
	PID        int
	Executable string
	Since      time.Time
}

// Path returns the lockfile path used for the data file at dataPath.
func Path(dataPath string) string {
	return filepath.Join(filepath.Dir(dataPath), constants.LockfileName)
}

// Acquire takes the lock next to dataPath. A lockfile left behind by a
// process that is no longer running, or that is not liftlog, is replaced.
func Acquire(dataPath string) (*Lock, error) {
	path := Path(dataPath)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	holder, err := Read(path)
	switch {
	case err == nil:
		if holder.PID != pidFunc() && isLiftlog(holder.PID) {
			return nil, fmt.Errorf("%w (pid %d since %s)", ErrLocked, holder.PID, holder.Since.Format(constants.DateTimeFormat))
		}
		logger.Info("Replacing stale lockfile", "path", path, "pid", holder.PID)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	case os.IsNotExist(err):
	default:
		logger.Warn("Ignoring unreadable lockfile", "path", path, "error", err)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove malformed lockfile: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("failed to create lockfile: %w", err)
	}
	defer f.Close()

	pid := pidFunc()
	exe := filepath.Base(os.Args[0])
	if _, err := fmt.Fprintf(f, "%d|%s|%d", pid, exe, nowFunc().Unix()); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}

	return &Lock{path: path, pid: pid}, nil
}

// Release removes the lockfile if it still belongs to this lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	holder, err := Read(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if holder.PID != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Read parses the lockfile at path.
func Read(path string) (Holder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return Holder{}, errors.New("lockfile is malformed")
	}

	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Holder{}, errors.New("invalid process ID in lockfile")
	}
	since, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Holder{}, errors.New("invalid timestamp in lockfile")
	}

	return Holder{PID: pid, Executable: parts[1], Since: time.Unix(since, 0)}, nil
}

func isLiftlog(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}
