package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func reset(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		Logger = nil
		file = ""
	})
}

func TestInitWritesRotatingFile(t *testing.T) {
	reset(t)
	dir := t.TempDir()

	if err := Init(Config{ConfigDir: dir, Level: "info"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Path() != FilePath(dir) {
		t.Errorf("Path() = %q, want %q", Path(), FilePath(dir))
	}

	Debug("hidden at info")
	Info("Workout finished", "sets", 12)

	data, err := os.ReadFile(FilePath(dir))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "Workout finished") {
		t.Errorf("log file = %q", data)
	}
	if strings.Contains(string(data), "hidden at info") {
		t.Error("debug record written at info level")
	}
}

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		cfg  Config
		want log.Level
	}{
		{Config{}, log.WarnLevel},
		{Config{Level: "error"}, log.ErrorLevel},
		{Config{Level: "info"}, log.InfoLevel},
		{Config{Level: "nonsense"}, log.WarnLevel},
		{Config{Level: "error", Debug: true}, log.DebugLevel},
	}
	for _, tt := range tests {
		if got := tt.cfg.level(); got != tt.want {
			t.Errorf("%+v level() = %v, want %v", tt.cfg, got, tt.want)
		}
	}
}

func TestInitDebugReportsCaller(t *testing.T) {
	reset(t)
	if err := Init(Config{Debug: true, ConfigDir: t.TempDir()}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", Logger.GetLevel())
	}
}

func TestInitWriterFiltersByLevel(t *testing.T) {
	reset(t)
	var buf bytes.Buffer
	InitWriter(&buf, log.WarnLevel)

	Info("quiet message")
	Error("Failed to save workout data", "error", "disk full")

	out := buf.String()
	if strings.Contains(out, "quiet message") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "Failed to save workout data") || !strings.Contains(out, "disk full") {
		t.Errorf("error message missing from output: %q", out)
	}
	if Path() != "" {
		t.Errorf("Path() = %q for a plain writer", Path())
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	reset(t)
	Logger = nil

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
