package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/smarthabit/internal/cli"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/keyring"
)

type DoctorCmd struct {
	Timeout time.Duration `help:"How long to wait for the server." default:"5s"`
}

type check struct {
	name string
	// warn marks checks whose failure is reported but does not fail the run
	warn bool
	// needsStore checks are skipped once a gate check fails
	needsStore bool
	gate       bool
	run        func(*cli.Context) error
}

func (cmd *DoctorCmd) checks() []check {
	return []check{
		{name: "State store reachable", gate: true, run: checkStoreReachable},
		{name: "Schema version", needsStore: true, run: checkSchemaVersion},
		{name: "Migrations complete", needsStore: true, run: checkMigrationsComplete},
		{name: "Preferences", needsStore: true, run: checkPreferences},
		{name: "OS keyring", warn: true, run: checkKeyring},
		{name: "Session", warn: true, needsStore: true, run: checkSession},
		{name: "Server reachable", needsStore: true, run: cmd.checkServer},
		{name: "Clock/timezone", run: checkClockTimezone},
	}
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	storeOK := true

	for _, c := range cmd.checks() {
		if c.needsStore && !storeOK {
			ctx.Printf("⊘ %s: SKIPPED (state store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.gate {
				storeOK = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load state store: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	runner, err := ctx.Store.Migrator()
	if err != nil {
		return err
	}
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	runner, err := ctx.Store.Migrator()
	if err != nil {
		return err
	}
	pending, err := runner.Pending()
	if err != nil {
		return fmt.Errorf("failed to count pending migrations: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending, run 'smarthabit migrate'", pending)
	}
	return nil
}

func checkPreferences(ctx *cli.Context) error {
	if _, err := ctx.Store.GetPreferences(); err != nil {
		return fmt.Errorf("failed to read preferences: %w", err)
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("%w, use --token-backend=%s", keyring.ErrKeyringUnavailable, constants.TokenBackendState)
	}
	return nil
}

func checkSession(ctx *cli.Context) error {
	if err := ctx.Connect(); err != nil {
		return err
	}
	if !ctx.Auth.Authenticated() {
		return errors.New("no session stored, run 'smarthabit login'")
	}
	return nil
}

func (cmd *DoctorCmd) checkServer(ctx *cli.Context) error {
	if err := ctx.Connect(); err != nil {
		return err
	}
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := ctx.Client.Ping(c); err != nil {
		return fmt.Errorf("%s: %w", ctx.Client.BaseURL(), err)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
