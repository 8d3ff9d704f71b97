// Package keyring keeps PostgreSQL connection strings in the OS keyring
// under the liftlog service, one entry per profile.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/liftlog/internal/constants"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	ErrNoConnectionString = errors.New("no PostgreSQL connection string configured")
)

// Source names where a connection string came from.
type Source string

const (
	SourceConfig  Source = "config"
	SourceEnv     Source = "environment"
	SourceKeyring Source = "keyring"
)

// Entry addresses one stored connection string.
type Entry struct {
	user string
}

// Connection returns the entry for profile; "" is the default profile.
func Connection(profile string) Entry {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return Entry{user: constants.DefaultKeyringUser}
	}
	return Entry{user: constants.DefaultKeyringUser + "/" + profile}
}

// Profile is the name passed to Connection.
func (e Entry) Profile() string {
	_, p, _ := strings.Cut(e.user, "/")
	if p == "" {
		return "default"
	}
	return p
}

func (e Entry) Get() (string, error) {
	v, err := keyring.Get(constants.AppName, e.user)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrNotFound
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func (e Entry) Set(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, e.user, connStr); err != nil {
		return fmt.Errorf("failed to store %s profile in keyring: %w", e.Profile(), err)
	}
	return nil
}

func (e Entry) Delete() error {
	err := keyring.Delete(constants.AppName, e.user)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("failed to delete %s profile from keyring: %w", e.Profile(), err)
	}
	return nil
}

// Available probes the OS keyring with a read of an entry that never exists.
func Available() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Resolve picks the connection string from the configured value, then
// LIFTLOG_DB_CONNECTION, then entry.
func Resolve(configured string, entry Entry) (string, Source, error) {
	if s := strings.TrimSpace(configured); s != "" {
		return s, SourceConfig, nil
	}
	if s := strings.TrimSpace(os.Getenv(constants.DBConnectionEnvVariable)); s != "" {
		return s, SourceEnv, nil
	}

	connStr, err := entry.Get()
	if errors.Is(err, ErrNotFound) {
		return "", "", fmt.Errorf("%w: set storage.connection in config.yaml, export %s, or run 'liftlog keyring set'",
			ErrNoConnectionString, constants.DBConnectionEnvVariable)
	}
	if err != nil {
		return "", "", err
	}
	return connStr, SourceKeyring, nil
}
