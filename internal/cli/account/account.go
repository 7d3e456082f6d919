package account

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/smarthabit/internal/api"
	"github.com/julianstephens/smarthabit/internal/cli"
	"github.com/julianstephens/smarthabit/internal/validation"
)

type LoginCmd struct {
	Username string `arg:"" optional:"" help:"Account username."`
	Password string `help:"Account password (prompted for when omitted)."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if err := ctx.Connect(); err != nil {
		return err
	}

	if c.Username == "" || c.Password == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Username").Value(&c.Username),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&c.Password),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}
	if err := validation.ValidateLogin(c.Username, c.Password); err != nil {
		return err
	}

	if err := ctx.Auth.Login(context.Background(), c.Username, c.Password); err != nil {
		return err
	}
	ctx.Printf("Logged in as %s\n", displayName(ctx, c.Username))
	return nil
}

type RegisterCmd struct {
	Username string `arg:"" optional:"" help:"Username (letters and numbers, 3 to 20 characters)."`
	Email    string `help:"Email address."`
	Password string `help:"Password (prompted for when omitted)."`
	Confirm  string `help:"Password confirmation (prompted for when omitted)."`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	if err := ctx.Connect(); err != nil {
		return err
	}

	if c.Username == "" || c.Email == "" || c.Password == "" || c.Confirm == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Username").Value(&c.Username),
			huh.NewInput().Title("Email").Value(&c.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&c.Password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&c.Confirm),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	if err := validation.ValidateRegister(validation.RegisterForm{
		Username:        c.Username,
		Email:           c.Email,
		Password:        c.Password,
		ConfirmPassword: c.Confirm,
	}); err != nil {
		return err
	}

	res := ctx.Auth.Register(context.Background(), api.RegisterRequest{
		Username: c.Username,
		Email:    c.Email,
		Password: c.Password,
	})
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	ctx.Printf("%s. Run 'smarthabit login %s' to sign in.\n", res.Message, c.Username)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Connect(); err != nil {
		return err
	}
	if err := ctx.Auth.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	ctx.Println("Logged out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireLogin(); err != nil {
		return err
	}
	ctx.Printf("%s (%s)\n", displayName(ctx, ""), ctx.Client.BaseURL())
	return nil
}

func displayName(ctx *cli.Context, fallback string) string {
	if name := ctx.Auth.Username(); name != "" {
		return name
	}
	if fallback != "" {
		return fallback
	}
	return "unknown user"
}
