package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Server)
	assert.Equal(t, "~/.config/smarthabit/state.db", cfg.State)
	assert.Equal(t, "keyring", cfg.TokenBackend)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SMARTHABIT_SERVER", "https://habits.example.com")
	t.Setenv("SMARTHABIT_STATE", "/tmp/state.db")
	t.Setenv("SMARTHABIT_TOKEN_BACKEND", "state")
	t.Setenv("SMARTHABIT_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://habits.example.com", cfg.Server)
	assert.Equal(t, "/tmp/state.db", cfg.State)
	assert.Equal(t, "state", cfg.TokenBackend)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "true", cfg.Vars()["debug"])
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("bool", func(t *testing.T) {
		t.Setenv("SMARTHABIT_DEBUG", "sometimes")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
	t.Run("backend", func(t *testing.T) {
		t.Setenv("SMARTHABIT_TOKEN_BACKEND", "cookies")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("server", func(t *testing.T) {
		t.Setenv("SMARTHABIT_SERVER", "localhost:8000")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.config/smarthabit/state.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config/smarthabit/state.db"), got)

	got, err = ExpandHome("/abs/state.db")
	require.NoError(t, err)
	assert.Equal(t, "/abs/state.db", got)
}

func TestLogDir(t *testing.T) {
	dir, err := LogDir("/var/lib/smarthabit/state.db")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/smarthabit", dir)

	dir, err = LogDir("postgresql://user@localhost/habits")
	require.NoError(t, err)
	assert.Equal(t, "smarthabit", filepath.Base(dir))
}
