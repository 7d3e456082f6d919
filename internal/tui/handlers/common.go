package handlers

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/smarthabit/internal/api"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/dashboard"
	"github.com/julianstephens/smarthabit/internal/models"
	"github.com/julianstephens/smarthabit/internal/session"
	"github.com/julianstephens/smarthabit/internal/tui/state"
	"github.com/julianstephens/smarthabit/internal/validation"
)

// ToastExpiredMsg hides the toast with the same ID, if it is still shown.
type ToastExpiredMsg struct {
	ID int
}

// FormTheme picks the huh theme matching the shell theme.
func FormTheme(dark bool) *huh.Theme {
	if dark {
		return huh.ThemeDracula()
	}
	return huh.ThemeCharm()
}

// NewLoginForm creates the login form
func NewLoginForm(fm *state.LoginFormModel, dark bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&fm.Username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password),
		),
	).WithTheme(FormTheme(dark)).WithShowHelp(false)
}

// NewRegisterForm creates the registration form. Checks run on submit so the
// first failing rule is reported, in order.
func NewRegisterForm(fm *state.RegisterFormModel, dark bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&fm.Username),
			huh.NewInput().
				Title("Email").
				Value(&fm.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Confirm),
		),
	).WithTheme(FormTheme(dark)).WithShowHelp(false)
}

// NewHabitForm creates the create-habit form
func NewHabitForm(fm *state.HabitFormModel, dark bool) *huh.Form {
	options := []huh.Option[models.Tag]{huh.NewOption("Select a tag", models.Tag(""))}
	for _, t := range models.Tags {
		options = append(options, huh.NewOption(string(t), t))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name),
			huh.NewText().
				Title("Description").
				Lines(3).
				Value(&fm.Description),
			huh.NewSelect[models.Tag]().
				Title("Tag").
				Options(options...).
				Value(&fm.Tag),
		),
	).WithTheme(FormTheme(dark)).WithShowHelp(false)
}

// ShowToast replaces the current toast and schedules its removal.
func ShowToast(m *state.Model, text string, isErr bool) tea.Cmd {
	m.ToastSeq++
	id := m.ToastSeq
	m.Toast = &state.Toast{ID: id, Text: text, Err: isErr}
	return tea.Tick(constants.ToastDurationMs*time.Millisecond, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// DayChangedMsg arrives at local midnight so rows marked yesterday redraw as
// markable.
type DayChangedMsg struct{}

// WaitForNextDay fires DayChangedMsg at the first midnight after now.
func WaitForNextDay(now time.Time) tea.Cmd {
	y, mo, d := now.Date()
	next := time.Date(y, mo, d+1, 0, 0, 0, 0, now.Location())
	return tea.Tick(next.Sub(now), func(time.Time) tea.Msg {
		return DayChangedMsg{}
	})
}

func HandleDayChanged(m *state.Model) tea.Cmd {
	m.SyncList()
	return WaitForNextDay(m.Now())
}

func HandleToastExpired(m *state.Model, msg ToastExpiredMsg) {
	if m.Toast != nil && m.Toast.ID == msg.ID {
		m.Toast = nil
	}
}

// ErrorText is the user-facing message of err.
func ErrorText(err error) string {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	if errors.Is(err, dashboard.ErrInFlight) {
		return constants.MsgMarkAlreadyInFlight
	}
	if msg := api.Classify(err).Message; msg != "" {
		return msg
	}
	return err.Error()
}

// Navigate resolves route through the auth guard and prepares the screen it
// lands on.
func Navigate(m *state.Model, route constants.Route) tea.Cmd {
	m.Route = m.Auth.Guard(route)
	m.FormError = ""
	m.Submitting = false
	m.Form = nil

	switch m.Route {
	case constants.RouteLogin:
		return openLogin(m, "")
	case constants.RouteRegister:
		m.RegisterForm = &state.RegisterFormModel{}
		m.Form = NewRegisterForm(m.RegisterForm, m.DarkMode)
		return m.Form.Init()
	case constants.RouteDashboard:
		m.State = constants.StateList
		m.Banner = ""
		return tea.Batch(Fetch(m), m.Spinner.Tick)
	}
	return nil
}

func openLogin(m *state.Model, username string) tea.Cmd {
	m.LoginForm = &state.LoginFormModel{Username: username}
	m.Form = NewLoginForm(m.LoginForm, m.DarkMode)
	return m.Form.Init()
}

// ToggleTheme flips and persists the theme.
func ToggleTheme(m *state.Model) tea.Cmd {
	prefs, err := session.ToggleDarkMode(m.Store)
	if err != nil {
		return ShowToast(m, ErrorText(err), true)
	}
	m.DarkMode = prefs.DarkMode
	name := "light"
	if m.DarkMode {
		name = "dark"
	}
	return ShowToast(m, "Theme: "+name, false)
}
