package storage

import "errors"

var (
	// ErrNotFound is returned by GetItem and RemoveItem for a key that was never set
	ErrNotFound = errors.New("key not found")
	// ErrNotInitialized is returned by Load when no storage exists yet
	ErrNotInitialized = errors.New("storage not initialized, run 'liftlog init' first")
	// ErrNotLoaded is returned when an item is accessed before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is a key/value store holding JSON documents, modeled on a
// browser's localStorage. Values passed to SetItem must be valid JSON.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Items
	GetItem(key string) ([]byte, error)
	SetItem(key string, value []byte) error
	RemoveItem(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
