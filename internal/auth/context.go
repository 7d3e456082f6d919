// Package auth tracks whether a user is signed in and decides which screen a
// route may show.
package auth

import (
	"context"
	"sync"

	"github.com/julianstephens/smarthabit/internal/api"
	"github.com/julianstephens/smarthabit/internal/logger"
	"github.com/julianstephens/smarthabit/internal/session"
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Context is the process-wide sign-in state. It is initialized from the token
// store and changes only through Login and Logout. A token the server later
// rejects does not change the state.
type Context struct {
	mu       sync.RWMutex
	state    State
	username string
	client   *api.AuthClient
}

// NewContext derives the initial state from the presence of an access token.
func NewContext(client *api.AuthClient) (*Context, error) {
	access, err := client.AccessToken()
	if err != nil {
		return nil, err
	}
	c := &Context{client: client}
	c.apply(access, "")
	return c, nil
}

// apply sets the state from an access token. fallback names the user when the
// token carries no username claim.
func (c *Context) apply(access, fallback string) {
	name := ""
	if access != "" {
		name = session.Username(access)
		if name == "" {
			name = fallback
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if access == "" {
		c.state = Unauthenticated
	} else {
		c.state = Authenticated
	}
	c.username = name
}

func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Context) Authenticated() bool {
	return c.State() == Authenticated
}

// Username is the display name from the access token, "" when unknown.
func (c *Context) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// Login authenticates on success and leaves the state untouched on failure.
func (c *Context) Login(ctx context.Context, username, password string) error {
	pair, err := c.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	c.apply(pair.Access, username)
	logger.Debug("auth state changed", "state", Authenticated)
	return nil
}

// Register creates an account without signing in, even when the server
// returned tokens; the caller continues to the login screen.
func (c *Context) Register(ctx context.Context, req api.RegisterRequest) api.RegisterResult {
	return c.client.Register(ctx, req)
}

// Logout forgets the tokens and always ends unauthenticated.
func (c *Context) Logout() error {
	err := c.client.Logout()
	c.apply("", "")
	logger.Debug("auth state changed", "state", Unauthenticated)
	return err
}
