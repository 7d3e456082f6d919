package system

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/smarthabit/internal/cli"
	"github.com/julianstephens/smarthabit/internal/session"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" help:"Show state database path."`
	DumpHabit    DebugDumpHabitCmd    `cmd:"" help:"Dump one habit from the server as JSON."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump preferences as JSON."`
	DumpSession  DebugDumpSessionCmd  `cmd:"" help:"Dump session state as JSON. Tokens are never printed."`
}

func printJSON(ctx *cli.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"ID or name of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireLogin(); err != nil {
		return err
	}
	habits, err := ctx.Habits().List(context.Background())
	if err != nil {
		return err
	}
	h, err := cli.FindHabit(habits, cmd.Habit)
	if err != nil {
		return err
	}
	return printJSON(ctx, h)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	prefs, err := ctx.Store.GetPreferences()
	if err != nil {
		return fmt.Errorf("failed to get preferences: %w", err)
	}
	return printJSON(ctx, prefs)
}

type sessionDump struct {
	Backend       string `json:"backend"`
	Server        string `json:"server"`
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	HasRefresh    bool   `json:"has_refresh"`
}

type DebugDumpSessionCmd struct{}

func (cmd *DebugDumpSessionCmd) Run(ctx *cli.Context) error {
	if err := ctx.Connect(); err != nil {
		return err
	}
	s, err := session.Load(ctx.Tokens)
	if err != nil {
		return err
	}
	return printJSON(ctx, sessionDump{
		Backend:       ctx.Config.TokenBackend,
		Server:        ctx.Client.BaseURL(),
		Authenticated: ctx.Auth.Authenticated(),
		Username:      ctx.Auth.Username(),
		HasRefresh:    s.RefreshToken != "",
	})
}
