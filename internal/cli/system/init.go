package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/smarthabit/internal/cli"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/storage"
	"github.com/julianstephens/smarthabit/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing state database before initialization."`
	Source string `help:"State database path or connection string to copy preferences and session from."`
}

// copiedKeys are carried over from a source state store by --source.
var copiedKeys = []string{
	constants.SettingDarkMode,
	constants.SettingAccessToken,
	constants.SettingRefreshToken,
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized smarthabit state at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying state from: %s\n", c.Source)
		if err := c.copyFrom(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Println("Copy completed successfully!")
	}

	return nil
}

// reset removes an existing SQLite state file. PostgreSQL stores are left
// alone; their tables are owned by the database administrator.
func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if storage.IsPostgresConnString(dbPath) {
		return fmt.Errorf("--force is only supported for SQLite state databases")
	}
	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) error {
	if storage.IsPostgresConnString(c.Source) {
		if err := postgres.ValidateConnString(c.Source); err != nil {
			return fmt.Errorf("invalid source: %w", err)
		}
	}
	source, err := cli.OpenStore(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source: %w", err)
	}
	defer source.Close()

	copied := 0
	for _, key := range copiedKeys {
		value, err := source.GetValue(key)
		if err == storage.ErrNotFound {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		if err := ctx.Store.SetValue(key, value); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		copied++
	}
	ctx.Printf("  Copied %d value(s)\n", copied)
	return nil
}
