// Package session persists the two bearer tokens issued at login. Tokens are
// stored and returned verbatim: there is no expiry handling, encryption or
// validation of their shape.
package session

import (
	"errors"
	"fmt"

	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/keyring"
	"github.com/julianstephens/smarthabit/internal/logger"
	"github.com/julianstephens/smarthabit/internal/models"
	"github.com/julianstephens/smarthabit/internal/storage"
)

// TokenStore is a key/value pass-through for the access and refresh tokens.
// Absent tokens read as the empty string with a nil error.
type TokenStore interface {
	Save(access, refresh string) error
	Access() (string, error)
	Refresh() (string, error)
	Clear() error
}

// Load reads both tokens into a Session.
func Load(ts TokenStore) (models.Session, error) {
	access, err := ts.Access()
	if err != nil {
		return models.Session{}, err
	}
	refresh, err := ts.Refresh()
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{AccessToken: access, RefreshToken: refresh}, nil
}

// KeyringTokenStore keeps the tokens in the OS keyring.
type KeyringTokenStore struct{}

func NewKeyringTokenStore() *KeyringTokenStore {
	return &KeyringTokenStore{}
}

// Keyring operations, replaced in tests to simulate a failing backend.
var (
	setKeyring    = keyring.Set
	deleteKeyring = keyring.Delete
)

// Save writes both tokens or neither. A failed refresh write removes the
// access token written just before it.
func (k *KeyringTokenStore) Save(access, refresh string) error {
	if err := setKeyring(constants.KeyringAccessUser, access); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if err := setKeyring(constants.KeyringRefreshUser, refresh); err != nil {
		if derr := deleteKeyring(constants.KeyringAccessUser); derr != nil && !errors.Is(derr, keyring.ErrNotFound) {
			return errors.Join(fmt.Errorf("failed to store refresh token: %w", err), fmt.Errorf("failed to roll back access token: %w", derr))
		}
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (k *KeyringTokenStore) Access() (string, error) {
	return readKeyring(constants.KeyringAccessUser)
}

func (k *KeyringTokenStore) Refresh() (string, error) {
	return readKeyring(constants.KeyringRefreshUser)
}

// Clear deletes both tokens even when one delete fails.
func (k *KeyringTokenStore) Clear() error {
	var errs []error
	for _, user := range []string{constants.KeyringAccessUser, constants.KeyringRefreshUser} {
		if err := deleteKeyring(user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", user, err))
		}
	}
	return errors.Join(errs...)
}

func readKeyring(user string) (string, error) {
	v, err := keyring.Get(user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return v, err
}

// StateTokenStore keeps the tokens in the local state database. It is used on
// hosts without a usable keyring.
type StateTokenStore struct {
	store storage.Provider
}

func NewStateTokenStore(store storage.Provider) *StateTokenStore {
	return &StateTokenStore{store: store}
}

func (s *StateTokenStore) Save(access, refresh string) error {
	if err := s.store.SetValue(constants.SettingAccessToken, access); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	if err := s.store.SetValue(constants.SettingRefreshToken, refresh); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

func (s *StateTokenStore) Access() (string, error) {
	return s.read(constants.SettingAccessToken)
}

func (s *StateTokenStore) Refresh() (string, error) {
	return s.read(constants.SettingRefreshToken)
}

func (s *StateTokenStore) Clear() error {
	if err := s.store.DeleteValue(constants.SettingAccessToken); err != nil {
		return err
	}
	return s.store.DeleteValue(constants.SettingRefreshToken)
}

func (s *StateTokenStore) read(key string) (string, error) {
	v, err := s.store.GetValue(key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return v, err
}

// Open selects the token backend. An explicit "state" backend always uses the
// state database; "keyring" falls back to it when the keyring is unavailable.
func Open(backend string, store storage.Provider) (TokenStore, error) {
	switch backend {
	case constants.TokenBackendState:
		return NewStateTokenStore(store), nil
	case constants.TokenBackendKeyring, "":
		if keyring.IsAvailable() {
			return NewKeyringTokenStore(), nil
		}
		logger.Warn("OS keyring unavailable, storing tokens in the state database")
		return NewStateTokenStore(store), nil
	default:
		return nil, fmt.Errorf("unknown token backend %q (expected %q or %q)", backend, constants.TokenBackendKeyring, constants.TokenBackendState)
	}
}
