// Package sqlite is the single-file SQL provider, backed by the pure Go
// modernc.org/sqlite driver.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/migration"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/migrations"
)

// pragmas are applied by the driver on every new connection.
var pragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

type Store struct {
	storage.SQLItems
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

func (s *Store) open() error {
	files, err := storage.MigrationsFor(migrations.FS, migration.SQLite)
	if err != nil {
		return err
	}
	db, err := sql.Open("sqlite", dsn(s.path))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	s.SQLItems = storage.SQLItems{DB: db, Dialect: migration.SQLite, Migrations: files}
	return nil
}

// Init creates the database file if needed and brings its schema up to
// date. Running it on an existing database only applies new migrations.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if s.DB == nil {
		if err := s.open(); err != nil {
			return err
		}
	}
	if _, err := s.Migrate(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Load opens an existing database. A missing file is ErrNotInitialized and
// a schema from a newer liftlog is refused.
func (s *Store) Load() error {
	if s.DB != nil {
		return nil
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return storage.ErrNotInitialized
	}
	if err := s.open(); err != nil {
		return err
	}
	if err := s.CheckSchema(); err != nil {
		s.Close()
		return err
	}
	return nil
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	err := s.DB.Close()
	s.DB = nil
	return err
}

func (s *Store) GetConfigPath() string { return s.path }

// GetDB is nil until Init or Load succeeds.
func (s *Store) GetDB() *sql.DB { return s.DB }
