package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/liftlog/internal/constants"
)

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Workout WorkoutConfig `yaml:"workout"`
	Backup  BackupConfig  `yaml:"backup"`
	Debug   bool          `yaml:"debug"`
	// LogLevel is debug, info, warn or error. Debug overrides it.
	LogLevel string `yaml:"log_level"`

	// path the config was read from; empty when defaults were used
	path string
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	// Connection is a PostgreSQL URI or DSN without a password. When empty,
	// LIFTLOG_DB_CONNECTION and then the keyring are consulted.
	Connection string `yaml:"connection"`
	// KeyringProfile selects the keyring entry, "" for the default one.
	KeyringProfile string `yaml:"keyring_profile"`
}

type WorkoutConfig struct {
	DefaultName string `yaml:"default_name"`
	DefaultSets int    `yaml:"default_sets"`
	WeightUnit  string `yaml:"weight_unit"`
	RecentCount int    `yaml:"recent_count"`
}

type BackupConfig struct {
	Enabled bool `yaml:"enabled"`
	Keep    int  `yaml:"keep"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: constants.DriverJSON,
		},
		Workout: WorkoutConfig{
			DefaultName: constants.DefaultWorkoutName,
			DefaultSets: constants.DefaultSetsPerExercise,
			WeightUnit:  "kg",
			RecentCount: constants.DefaultRecentWorkouts,
		},
		Backup: BackupConfig{
			Enabled: true,
			Keep:    constants.MaxBackups,
		},
		LogLevel: constants.DefaultLogLevel,
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error: defaults are used instead.
// Env vars use the prefix LIFTLOG_:
//
//	LIFTLOG_STORAGE_DRIVER, LIFTLOG_STORAGE_PATH, LIFTLOG_KEYRING_PROFILE,
//	LIFTLOG_WEIGHT_UNIT, LIFTLOG_BACKUP_KEEP, LIFTLOG_DEBUG, LIFTLOG_LOG_LEVEL
//
// LIFTLOG_DB_CONNECTION is read when the postgres provider is built so a
// password it carries is never mistaken for one written in the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	path = ExpandHome(path)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		cfg.path = path
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Storage.Path = ExpandHome(cfg.Storage.Path)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTLOG_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("LIFTLOG_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("LIFTLOG_KEYRING_PROFILE"); v != "" {
		cfg.Storage.KeyringProfile = v
	}
	if v := os.Getenv("LIFTLOG_WEIGHT_UNIT"); v != "" {
		cfg.Workout.WeightUnit = v
	}
	if v := os.Getenv("LIFTLOG_BACKUP_KEEP"); v != "" {
		if keep, err := strconv.Atoi(v); err == nil {
			cfg.Backup.Keep = keep
		}
	}
	if v := os.Getenv("LIFTLOG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LIFTLOG_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = debug
		}
	}
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case constants.DriverJSON, constants.DriverSQLite, constants.DriverMemory, constants.DriverPostgres:
	default:
		return fmt.Errorf("storage.driver %q is not one of json, sqlite, postgres, memory", c.Storage.Driver)
	}
	if c.Workout.DefaultSets < 0 || c.Workout.DefaultSets > 20 {
		return fmt.Errorf("workout.default_sets must be between 0 and 20")
	}
	if strings.TrimSpace(c.Workout.DefaultName) == "" {
		return fmt.Errorf("workout.default_name is required")
	}
	switch c.Workout.WeightUnit {
	case "kg", "lb":
	default:
		return fmt.Errorf("workout.weight_unit must be kg or lb")
	}
	if c.Workout.RecentCount < 1 {
		return fmt.Errorf("workout.recent_count must be at least 1")
	}
	if c.Backup.Keep < 1 {
		return fmt.Errorf("backup.keep must be at least 1")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error")
	}
	return nil
}

// Path returns the file the config was read from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// DataPath returns the storage file for file-backed drivers, falling back
// to a driver-specific file next to the default config.
func (c *Config) DataPath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	base := ExpandHome(constants.DefaultConfigDir)
	if c.Storage.Driver == constants.DriverSQLite {
		return filepath.Join(base, constants.AppName+".db")
	}
	return filepath.Join(base, constants.AppName+".json")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
