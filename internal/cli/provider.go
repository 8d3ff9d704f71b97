package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/keyring"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/internal/storage/postgres"
	"github.com/julianstephens/liftlog/internal/storage/sqlite"
)

// NewProvider builds the storage provider selected by cfg. The provider is
// neither initialized nor loaded.
func NewProvider(cfg *config.Config) (storage.Provider, error) {
	switch cfg.Storage.Driver {
	case constants.DriverJSON:
		return storage.NewJSONStore(cfg.DataPath()), nil
	case constants.DriverSQLite:
		return sqlite.NewStore(cfg.DataPath()), nil
	case constants.DriverMemory:
		return storage.NewMemoryStore(), nil
	case constants.DriverPostgres:
		connStr, source, err := keyring.Resolve(cfg.Storage.Connection, keyring.Connection(cfg.Storage.KeyringProfile))
		if err != nil {
			return nil, err
		}
		if err := postgres.ValidateConnString(connStr); err != nil {
			// The keyring and the environment are acceptable places for a password.
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) || source == keyring.SourceConfig {
				return nil, fmt.Errorf("connection string from %s: %w", source, err)
			}
		}
		logger.Debug("Using PostgreSQL connection", "source", source, "conn", postgres.MaskPassword(connStr))
		return postgres.New(connStr), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// OpenSource builds a provider for an import source: a PostgreSQL
// connection string, a SQLite database (.db, .sqlite) or a JSON data file.
func OpenSource(source string) (storage.Provider, error) {
	source = strings.TrimSpace(source)
	if postgres.IsConnString(source) {
		if err := postgres.ValidateConnString(source); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials, use %s or .pgpass instead", constants.DBConnectionEnvVariable)
			}
			return nil, err
		}
		return postgres.New(source), nil
	}

	path := config.ExpandHome(source)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return sqlite.NewStore(path), nil
	default:
		return storage.NewJSONStore(path), nil
	}
}
