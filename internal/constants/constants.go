package constants

const (
	AppName            = "liftlog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/liftlog"
	DefaultConfigFile  = "~/.config/liftlog/config.yaml"
	DefaultDataPath    = "~/.config/liftlog/liftlog.json"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DateTimeFormat is used when listing workouts
	DateTimeFormat = "2006-01-02 15:04"

	// Storage keys. The first two match the browser app's localStorage keys
	// so exported data can be restored as-is.
	WorkoutsKey  = "workout-tracker-data"
	TemplatesKey = "workout-templates"
	SessionKey   = "workout-session"

	// Storage drivers
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	// Workout defaults
	DefaultWorkoutName      = "New Workout"
	DefaultSetsPerExercise  = 3
	DefaultRecentWorkouts   = 5
	DBConnectionEnvVariable = "LIFTLOG_DB_CONNECTION"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "liftlog-"
	BackupFileSuffix = ".json"

	// Lockfile
	LockfileName = "liftlog.lock"

	// Log file, rotated by size
	LogDirName      = "logs"
	LogFileName     = "liftlog.log"
	LogMaxSizeMB    = 10
	LogMaxBackups   = 3
	LogMaxAgeDays   = 28
	DefaultLogLevel = "warn"
)
