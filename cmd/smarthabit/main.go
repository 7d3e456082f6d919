package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/smarthabit/internal/cli"
	"github.com/julianstephens/smarthabit/internal/cli/account"
	"github.com/julianstephens/smarthabit/internal/cli/habits"
	"github.com/julianstephens/smarthabit/internal/cli/settings"
	"github.com/julianstephens/smarthabit/internal/cli/system"
	"github.com/julianstephens/smarthabit/internal/config"
	"github.com/julianstephens/smarthabit/internal/errors"
	"github.com/julianstephens/smarthabit/internal/logger"
)

var CLI struct {
	Version      kong.VersionFlag
	Config       string `help:"State store path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use .pgpass or the OS keyring instead." type:"string" default:"${state}"`
	Server       string `help:"Habit tracker server origin." default:"${server}"`
	TokenBackend string `help:"Where session tokens are kept." enum:"keyring,state" default:"${token_backend}"`
	Debug        bool   `help:"Enable debug logging to stderr." default:"${debug}"`

	Login    account.LoginCmd    `cmd:"" help:"Sign in and save the session."`
	Register account.RegisterCmd `cmd:"" help:"Create an account."`
	Logout   account.LogoutCmd   `cmd:"" help:"Forget the saved session."`
	Whoami   account.WhoamiCmd   `cmd:"" help:"Show the signed-in user."`
	Habit    habits.HabitCmd     `cmd:"" help:"Manage habits and mark them done."`
	Theme    settings.ThemeCmd   `cmd:"" help:"Show or change the theme."`
	Init     system.InitCmd      `cmd:"" help:"Initialize the local state store."`
	Migrate  system.MigrateCmd   `cmd:"" help:"Run state store migrations."`
	Doctor   system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Keyring  system.KeyringCmd   `cmd:"" help:"Manage the state store connection string in the OS keyring."`
	DebugCmd system.DebugCmd     `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Tui      system.TuiCmd       `cmd:"" help:"Launch the interactive shell." default:"1"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		errors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name("smarthabit"),
		kong.Description("Terminal client for the Smart Habit Tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars(cfg.Vars()),
	)

	cfg.State = CLI.Config
	cfg.Server = CLI.Server
	cfg.TokenBackend = CLI.TokenBackend
	cfg.Debug = CLI.Debug
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	logDir, err := config.LogDir(cfg.State)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: logDir,
		Quiet:     strings.HasPrefix(ctx.Command(), "tui"),
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := cli.OpenStore(cfg.State)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Config: cfg,
		Store:  store,
	}
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
