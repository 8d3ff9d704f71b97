package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"
)

// Mock Process
type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withProcesses(t *testing.T, self int, running map[int]string) {
	t.Helper()
	oldFind, oldPid, oldNow := findProcessFunc, pidFunc, nowFunc
	t.Cleanup(func() { findProcessFunc, pidFunc, nowFunc = oldFind, oldPid, oldNow })

	pidFunc = func() int { return self }
	nowFunc = func() time.Time { return time.Unix(1700000000, 0) }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := running[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
}

func writeLock(t *testing.T, dataPath, content string) {
	t.Helper()
	if err := os.WriteFile(Path(dataPath), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestAcquireAndRelease(t *testing.T) {
	withProcesses(t, 100, nil)
	dataPath := filepath.Join(t.TempDir(), "liftlog.json")

	lock, err := Acquire(dataPath)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	holder, err := Read(Path(dataPath))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if holder.PID != 100 || holder.Since.Unix() != 1700000000 {
		t.Errorf("holder = %+v", holder)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(Path(dataPath)); !os.IsNotExist(err) {
		t.Errorf("lockfile still present after Release: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Errorf("second Release: %v", err)
	}
}

func TestAcquire(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		running  map[int]string
		wantErr  bool
	}{
		{name: "held by live liftlog", existing: "200|liftlog|1700000000", running: map[int]string{200: "liftlog"}, wantErr: true},
		{name: "held by dead process", existing: "200|liftlog|1700000000"},
		{name: "pid reused by another program", existing: "200|liftlog|1700000000", running: map[int]string{200: "bash"}},
		{name: "held by this process", existing: "100|liftlog|1700000000", running: map[int]string{100: "liftlog"}},
		{name: "malformed", existing: "garbage"},
		{name: "bad pid", existing: "abc|liftlog|1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withProcesses(t, 100, tt.running)
			dataPath := filepath.Join(t.TempDir(), "liftlog.json")
			writeLock(t, dataPath, tt.existing)

			lock, err := Acquire(dataPath)
			if tt.wantErr {
				if !errors.Is(err, ErrLocked) {
					t.Fatalf("Acquire error = %v, want ErrLocked", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Acquire: %v", err)
			}
			defer lock.Release()

			holder, err := Read(Path(dataPath))
			if err != nil || holder.PID != 100 {
				t.Errorf("lockfile not taken over: %+v, %v", holder, err)
			}
		})
	}
}

func TestReleaseLeavesForeignLock(t *testing.T) {
	withProcesses(t, 100, nil)
	dataPath := filepath.Join(t.TempDir(), "liftlog.json")

	lock, err := Acquire(dataPath)
	if err != nil {
		t.Fatal(err)
	}
	writeLock(t, dataPath, "300|liftlog|1700000000")

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(Path(dataPath)); err != nil {
		t.Errorf("foreign lockfile removed: %v", err)
	}
}
