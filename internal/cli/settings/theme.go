package settings

import (
	"github.com/julianstephens/smarthabit/internal/cli"
	"github.com/julianstephens/smarthabit/internal/models"
	"github.com/julianstephens/smarthabit/internal/session"
)

type ThemeCmd struct {
	Dark   bool `help:"Switch to the dark theme." xor:"theme"`
	Light  bool `help:"Switch to the light theme." xor:"theme"`
	Toggle bool `help:"Flip between light and dark." xor:"theme"`
}

func (c *ThemeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	var (
		prefs models.Preferences
		err   error
	)
	switch {
	case c.Dark:
		prefs, err = session.SetDarkMode(ctx.Store, true)
	case c.Light:
		prefs, err = session.SetDarkMode(ctx.Store, false)
	case c.Toggle:
		prefs, err = session.ToggleDarkMode(ctx.Store)
	default:
		prefs, err = ctx.Store.GetPreferences()
		if err != nil {
			return err
		}
		ctx.Printf("Theme: %s\n", themeName(prefs))
		return nil
	}
	if err != nil {
		return err
	}
	ctx.Printf("Theme set to %s\n", themeName(prefs))
	return nil
}

func themeName(p models.Preferences) string {
	if p.DarkMode {
		return "dark"
	}
	return "light"
}
