package storage

import (
	"errors"

	"github.com/julianstephens/smarthabit/internal/migration"
	"github.com/julianstephens/smarthabit/internal/models"
)

// ErrNotFound is returned by GetValue when no value is stored under a key.
var ErrNotFound = errors.New("value not found")

// Provider is the local state store. It holds display preferences and, when
// the keyring backend is not used, the session tokens.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Preferences
	GetPreferences() (models.Preferences, error)
	SavePreferences(models.Preferences) error

	// Key/value access to the settings table
	GetValue(key string) (string, error)
	SetValue(key, value string) error
	DeleteValue(key string) error

	// Migrator returns a runner bound to the open database
	Migrator() (*migration.Runner, error)

	// Utils
	GetConfigPath() string
}
