package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/smarthabit/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get retrieves the secret stored for user under the application service.
// Returns ErrNotFound if nothing is stored.
func Get(user string) (string, error) {
	secret, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		// Wrap other keyring errors as unavailable
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores a secret for user under the application service.
func Set(user, secret string) error {
	if err := keyring.Set(constants.AppName, user, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", user, err)
	}
	return nil
}

// Delete removes the secret stored for user. Returns ErrNotFound if nothing
// was stored.
func Delete(user string) error {
	err := keyring.Delete(constants.AppName, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", user, err)
	}
	return nil
}

// GetConnectionString retrieves the state database connection string from the OS keyring.
// Returns ErrNotFound if no credentials are stored.
func GetConnectionString() (string, error) {
	return Get(constants.DefaultKeyringUser)
}

// SetConnectionString stores the state database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return Set(constants.DefaultKeyringUser, connStr)
}

// DeleteConnectionString removes the state database connection string from the OS keyring.
func DeleteConnectionString() error {
	return Delete(constants.DefaultKeyringUser)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered, just without an entry
	return err == nil || err == keyring.ErrNotFound
}
