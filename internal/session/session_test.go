package session

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/storage/sqlite"
)

func newStateStore(t *testing.T) *StateTokenStore {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "state.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewStateTokenStore(store)
}

// tokenStoreContract exercises the behavior every backend must share.
func tokenStoreContract(t *testing.T, ts TokenStore) {
	t.Helper()

	access, err := ts.Access()
	if err != nil || access != "" {
		t.Fatalf("fresh Access() = %q, %v; want empty, nil", access, err)
	}

	if err := ts.Save("acc.one", "ref.one"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := ts.Save("acc.two", "ref.two"); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}

	sess, err := Load(ts)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if sess.AccessToken != "acc.two" || sess.RefreshToken != "ref.two" {
		t.Errorf("Load() = %+v, want latest tokens returned unmodified", sess)
	}
	if !sess.Authenticated() {
		t.Error("session with access token should be authenticated")
	}

	if err := ts.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if err := ts.Clear(); err != nil {
		t.Fatalf("Clear() on empty store failed: %v", err)
	}

	sess, err = Load(ts)
	if err != nil {
		t.Fatalf("Load() after Clear failed: %v", err)
	}
	if sess.AccessToken != "" || sess.RefreshToken != "" {
		t.Errorf("tokens survived Clear(): %+v", sess)
	}
}

func TestKeyringTokenStore(t *testing.T) {
	gokeyring.MockInit()
	tokenStoreContract(t, NewKeyringTokenStore())
}

func TestKeyringSaveRollsBackOnRefreshFailure(t *testing.T) {
	gokeyring.MockInit()
	orig := setKeyring
	defer func() { setKeyring = orig }()
	setKeyring = func(user, secret string) error {
		if user == constants.KeyringRefreshUser {
			return errors.New("keyring locked")
		}
		return orig(user, secret)
	}

	ts := NewKeyringTokenStore()
	if err := ts.Save("access", "refresh"); err == nil {
		t.Fatal("Save() should fail when the refresh token cannot be stored")
	}
	if access, err := ts.Access(); err != nil || access != "" {
		t.Errorf("Access() = %q, %v after failed save, want empty", access, err)
	}
}

func TestKeyringClearDeletesBothOnFailure(t *testing.T) {
	gokeyring.MockInit()
	ts := NewKeyringTokenStore()
	if err := ts.Save("access", "refresh"); err != nil {
		t.Fatal(err)
	}

	orig := deleteKeyring
	defer func() { deleteKeyring = orig }()
	deleteKeyring = func(user string) error {
		if user == constants.KeyringAccessUser {
			return errors.New("keyring locked")
		}
		return orig(user)
	}

	if err := ts.Clear(); err == nil {
		t.Error("Clear() should report the failed delete")
	}
	if refresh, err := ts.Refresh(); err != nil || refresh != "" {
		t.Errorf("Refresh() = %q, %v after Clear, want empty", refresh, err)
	}
}

func TestStateTokenStore(t *testing.T) {
	tokenStoreContract(t, newStateStore(t))
}

func TestMemoryTokenStore(t *testing.T) {
	tokenStoreContract(t, NewMemoryTokenStore())
}

func TestTokensStoredVerbatim(t *testing.T) {
	ts := newStateStore(t)
	weird := "  not-a-jwt \t"
	if err := ts.Save(weird, ""); err != nil {
		t.Fatal(err)
	}
	got, _ := ts.Access()
	if got != weird {
		t.Errorf("Access() = %q, want %q", got, weird)
	}
}

func TestOpen(t *testing.T) {
	gokeyring.MockInit()
	state := sqlite.NewStore(filepath.Join(t.TempDir(), "state.db"))
	if err := state.Init(); err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	ts, err := Open("state", state)
	if err != nil {
		t.Fatalf("Open(state) failed: %v", err)
	}
	if _, ok := ts.(*StateTokenStore); !ok {
		t.Errorf("Open(state) = %T, want *StateTokenStore", ts)
	}

	ts, err = Open("keyring", state)
	if err != nil {
		t.Fatalf("Open(keyring) failed: %v", err)
	}
	if _, ok := ts.(*KeyringTokenStore); !ok {
		t.Errorf("Open(keyring) = %T, want *KeyringTokenStore", ts)
	}

	gokeyring.MockInitWithError(errors.New("no secret service"))
	defer gokeyring.MockInit()
	ts, err = Open("keyring", state)
	if err != nil {
		t.Fatalf("Open(keyring) without keyring failed: %v", err)
	}
	if _, ok := ts.(*StateTokenStore); !ok {
		t.Errorf("Open(keyring) fallback = %T, want *StateTokenStore", ts)
	}

	if _, err := Open("cookie-jar", state); err == nil {
		t.Error("Open() with unknown backend should fail")
	}
}

func TestUsername(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "ada",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatal(err)
	}

	// Expired and signed with a key we do not know: still readable for display
	if got := Username(signed); got != "ada" {
		t.Errorf("Username() = %q, want %q", got, "ada")
	}
	if got := Username("opaque"); got != "" {
		t.Errorf("Username(opaque) = %q, want empty", got)
	}
	if got := Username(""); got != "" {
		t.Errorf("Username(\"\") = %q, want empty", got)
	}
}

func TestThemeSurvivesLogout(t *testing.T) {
	ts := newStateStore(t)
	store := ts.store

	prefs, err := ToggleDarkMode(store)
	if err != nil {
		t.Fatalf("ToggleDarkMode() failed: %v", err)
	}
	if !prefs.DarkMode {
		t.Fatal("expected dark mode after first toggle")
	}

	if err := ts.Save("a", "r"); err != nil {
		t.Fatal(err)
	}
	if err := ts.Clear(); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if !got.DarkMode {
		t.Error("clearing the session reset the theme")
	}

	prefs, err = SetDarkMode(store, false)
	if err != nil || prefs.DarkMode {
		t.Errorf("SetDarkMode(false) = %+v, %v", prefs, err)
	}
}
