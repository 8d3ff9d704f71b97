package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/liftlog/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	// file is the rotating log file, empty when logging to a plain writer
	file string
)

// Config holds logger configuration
type Config struct {
	Debug bool
	// Level is one of debug, info, warn, error. Empty means warn.
	Level     string
	ConfigDir string
	// Stderr mirrors records to stderr as well as the log file. The TUI
	// leaves this off so it does not garble the screen.
	Stderr bool
}

// FilePath is the log file under configDir.
func FilePath(configDir string) string {
	return filepath.Join(configDir, constants.LogDirName, constants.LogFileName)
}

// Path returns the file the global logger writes to, or "" when Init has
// not opened one.
func Path() string {
	return file
}

func (c Config) level() log.Level {
	if c.Debug {
		return log.DebugLevel
	}
	if c.Level == "" {
		return log.WarnLevel
	}
	lvl, err := log.ParseLevel(c.Level)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// Init points the global logger at a size-rotated file under ConfigDir.
func Init(cfg Config) error {
	path := FilePath(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   true,
	}

	var w io.Writer = rotating
	if cfg.Debug || cfg.Stderr {
		w = io.MultiWriter(os.Stderr, rotating)
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           cfg.level(),
		Prefix:          constants.AppName,
	})
	file = path
	return nil
}

// InitWriter points the global logger at w. Used by tests and as the
// fallback when the log file cannot be opened.
func InitWriter(w io.Writer, level log.Level) {
	Logger = log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: constants.AppName,
	})
	file = ""
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
