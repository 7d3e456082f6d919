package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/julianstephens/smarthabit/internal/api"
	"github.com/julianstephens/smarthabit/internal/auth"
	"github.com/julianstephens/smarthabit/internal/config"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/keyring"
	"github.com/julianstephens/smarthabit/internal/logger"
	"github.com/julianstephens/smarthabit/internal/models"
	"github.com/julianstephens/smarthabit/internal/session"
	"github.com/julianstephens/smarthabit/internal/storage"
	"github.com/julianstephens/smarthabit/internal/storage/postgres"
	"github.com/julianstephens/smarthabit/internal/storage/sqlite"
)

// ErrNotLoggedIn is returned by commands that need a session when none exists.
var ErrNotLoggedIn = errors.New("not logged in, run 'smarthabit login' first")

// Context is shared by every command. Store is always set; Tokens, Client and
// Auth are filled in by Connect.
type Context struct {
	Config config.Config
	Store  storage.Provider
	Tokens session.TokenStore
	Client *api.Client
	Auth   *auth.Context

	// Out receives command output; nil means stdout
	Out io.Writer
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Connect loads the state store and builds the token store, API client and
// auth state on top of it. It is idempotent.
func (c *Context) Connect() error {
	if c.Auth != nil {
		return nil
	}
	if err := c.Store.Load(); err != nil {
		return err
	}
	if c.Tokens == nil {
		tokens, err := session.Open(c.Config.TokenBackend, c.Store)
		if err != nil {
			return err
		}
		c.Tokens = tokens
	}
	if c.Client == nil {
		c.Client = api.New(c.Config.Server, c.Tokens)
	}
	a, err := auth.NewContext(c.Client.Auth())
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	c.Auth = a
	logger.Debug("connected", "server", c.Client.BaseURL(), "state", c.Store.GetConfigPath(), "auth", a.State())
	return nil
}

// RequireLogin connects and fails unless a session exists.
func (c *Context) RequireLogin() error {
	if err := c.Connect(); err != nil {
		return err
	}
	if !c.Auth.Authenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

func (c *Context) Habits() *api.HabitsClient {
	return c.Client.Habits()
}

// OpenStore picks the state backend for path. The default path defers to a
// PostgreSQL connection string saved in the keyring, if any.
func OpenStore(path string) (storage.Provider, error) {
	if path == constants.DefaultConfigPath {
		if connStr, err := keyring.GetConnectionString(); err == nil && connStr != "" {
			logger.Debug("using connection string from keyring")
			return postgres.New(connStr), nil
		}
	}

	if storage.IsPostgresConnString(path) {
		if storage.HasEmbeddedCredentials(path) {
			return nil, &embeddedCredentialsError{}
		}
		return postgres.New(path), nil
	}

	expanded, err := config.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(expanded), nil
}

type embeddedCredentialsError struct{}

func (e *embeddedCredentialsError) Error() string {
	return "PostgreSQL connection strings with embedded credentials are not allowed"
}

func (e *embeddedCredentialsError) Hint() string {
	return "store it in the OS keyring with 'smarthabit keyring set <conn>', or drop the password and use .pgpass"
}

// FindHabit resolves ref as a numeric id first, then as a case-insensitive
// name.
func FindHabit(habits []models.Habit, ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		for _, h := range habits {
			if h.ID == id {
				return h, nil
			}
		}
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q not found", ref)
}
