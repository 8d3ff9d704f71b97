package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/julianstephens/liftlog/internal/migration"
)

// SQLItems implements the item half of Provider over the local_storage table
// shared by the SQL backends. Migrations holds that dialect's SQL files.
type SQLItems struct {
	DB         *sql.DB
	Dialect    migration.Dialect
	Migrations fs.FS
}

func (s SQLItems) bind(n int) string {
	return s.Dialect.Placeholder(n)
}

func (s SQLItems) GetItem(key string) ([]byte, error) {
	if s.DB == nil {
		return nil, ErrNotLoaded
	}

	var value string
	err := s.DB.QueryRow("SELECT value FROM local_storage WHERE key = "+s.bind(1), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %q: %w", key, err)
	}
	return []byte(value), nil
}

func (s SQLItems) SetItem(key string, value []byte) error {
	if s.DB == nil {
		return ErrNotLoaded
	}
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}

	query := fmt.Sprintf(`
		INSERT INTO local_storage (key, value, updated_at) VALUES (%s, %s, %s)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.bind(1), s.bind(2), s.bind(3))

	if _, err := s.DB.Exec(query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set item %q: %w", key, err)
	}
	return nil
}

func (s SQLItems) RemoveItem(key string) error {
	if s.DB == nil {
		return ErrNotLoaded
	}

	res, err := s.DB.Exec("DELETE FROM local_storage WHERE key = "+s.bind(1), key)
	if err != nil {
		return fmt.Errorf("failed to remove item %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to remove item %q: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

func (s SQLItems) Keys() ([]string, error) {
	if s.DB == nil {
		return nil, ErrNotLoaded
	}

	rows, err := s.DB.Query("SELECT key FROM local_storage ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
