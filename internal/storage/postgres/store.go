// Package postgres stores liftlog data in a PostgreSQL schema named after
// the app, for sharing one history between machines.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/liftlog/internal/constants"
	clierrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/migration"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/migrations"
)

const (
	maxConns     = 4
	connLifetime = 5 * time.Minute
)

type Store struct {
	storage.SQLItems
	connStr string
}

// New keeps connStr as given but pins search_path to the liftlog schema
// unless the caller chose one.
func New(connStr string) *Store {
	s := &Store{connStr: connStr}
	c, err := parseConnInfo(connStr)
	if err != nil {
		logger.Warn("Failed to parse Postgres connection string", "error", err)
		return s
	}
	c.setDefault("search_path", constants.AppName)
	s.connStr = c.String()
	return s
}

func (s *Store) open() error {
	files, err := storage.MigrationsFor(migrations.FS, migration.Postgres)
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(connLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return s.connectError(err)
	}
	s.SQLItems = storage.SQLItems{DB: db, Dialect: migration.Postgres, Migrations: files}
	return nil
}

func (s *Store) connectError(err error) error {
	err = fmt.Errorf("failed to connect to %s: %w", MaskPassword(s.connStr), err)
	c, perr := parseConnInfo(s.connStr)
	if perr != nil {
		return err
	}
	if _, ok := c.get("sslmode"); !ok && strings.Contains(err.Error(), "SSL is not enabled on the server") {
		return clierrors.WithHint(err, "add sslmode=disable to the connection string")
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "invalid_password" {
		return clierrors.WithHint(err, "store the password with 'liftlog keyring set' or use ~/.pgpass")
	}
	return err
}

// Init creates the liftlog schema and applies pending migrations.
func (s *Store) Init() error {
	if s.DB == nil {
		if err := s.open(); err != nil {
			return err
		}
	}
	if _, err := s.DB.Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(constants.AppName)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.Migrate(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Load connects to an initialized database. A schema without the
// local_storage table is ErrNotInitialized.
func (s *Store) Load() error {
	if s.DB != nil {
		return nil
	}
	if err := s.open(); err != nil {
		return err
	}

	var exists bool
	err := s.DB.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = $1 AND table_name = 'local_storage')",
		constants.AppName,
	).Scan(&exists)
	switch {
	case err != nil:
		s.Close()
		return fmt.Errorf("failed to inspect schema: %w", err)
	case !exists:
		return storage.ErrNotInitialized
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

// GetConfigPath names the database without exposing credentials.
func (s *Store) GetConfigPath() string {
	return "postgresql: " + MaskPassword(s.connStr)
}

func (s *Store) GetDB() *sql.DB { return s.DB }
