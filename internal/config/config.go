// Package config reads the environment defaults that command-line flags
// override.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"

	"github.com/julianstephens/smarthabit/internal/constants"
)

type Config struct {
	Server       string `env:"SMARTHABIT_SERVER" envDefault:"http://localhost:8000"`
	State        string `env:"SMARTHABIT_STATE" envDefault:"~/.config/smarthabit/state.db"`
	TokenBackend string `env:"SMARTHABIT_TOKEN_BACKEND" envDefault:"keyring"`
	Debug        bool   `env:"SMARTHABIT_DEBUG" envDefault:"false"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.TokenBackend {
	case constants.TokenBackendKeyring, constants.TokenBackendState:
	default:
		return fmt.Errorf("invalid token backend %q (expected %q or %q)", c.TokenBackend, constants.TokenBackendKeyring, constants.TokenBackendState)
	}
	if !strings.HasPrefix(c.Server, "http://") && !strings.HasPrefix(c.Server, "https://") {
		return fmt.Errorf("invalid server %q: must start with http:// or https://", c.Server)
	}
	return nil
}

// Vars exposes the loaded values as kong interpolation variables so flag
// defaults follow the environment.
func (c Config) Vars() map[string]string {
	return map[string]string{
		"server":        c.Server,
		"state":         c.State,
		"token_backend": c.TokenBackend,
		"debug":         fmt.Sprintf("%t", c.Debug),
		"version":       constants.Version,
	}
}

// ExpandHome resolves a leading "~/" against the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// LogDir is where log files go for a given state location. PostgreSQL state
// logs next to the default SQLite location.
func LogDir(state string) (string, error) {
	if strings.HasPrefix(state, "postgres://") || strings.HasPrefix(state, "postgresql://") {
		state = constants.DefaultConfigPath
	}
	path, err := ExpandHome(state)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}
