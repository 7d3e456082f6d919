package handlers

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/smarthabit/internal/api"
	"github.com/julianstephens/smarthabit/internal/auth"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/dashboard"
	"github.com/julianstephens/smarthabit/internal/tui/state"
	"github.com/julianstephens/smarthabit/internal/validation"
)

type LoginResultMsg struct {
	Username string
	Err      error
}

type RegisterResultMsg struct {
	Username string
	Result   api.RegisterResult
}

func loginCmd(a *auth.Context, username, password string) tea.Cmd {
	return func() tea.Msg {
		err := a.Login(context.Background(), username, password)
		return LoginResultMsg{Username: username, Err: err}
	}
}

func registerCmd(a *auth.Context, req api.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		return RegisterResultMsg{Username: req.Username, Result: a.Register(context.Background(), req)}
	}
}

// updateForm feeds msg to the open form and reports its state afterwards.
func updateForm(m *state.Model, msg tea.Msg) (huh.FormState, tea.Cmd) {
	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}
	return m.Form.State, cmd
}

// HandleLoginState handles the login screen
func HandleLoginState(m *state.Model, msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(k, m.Keys.Switch) && !m.Submitting {
			return Navigate(m, constants.RouteRegister)
		}
		if m.Submitting {
			return nil
		}
	}
	if m.Form == nil {
		return nil
	}

	formState, cmd := updateForm(m, msg)
	switch formState {
	case huh.StateCompleted:
		fm := *m.LoginForm
		if err := validation.ValidateLogin(fm.Username, fm.Password); err != nil {
			m.FormError = ErrorText(err)
			m.Form = NewLoginForm(m.LoginForm, m.DarkMode)
			return m.Form.Init()
		}
		m.FormError = ""
		m.Submitting = true
		return tea.Batch(loginCmd(m.Auth, fm.Username, fm.Password), m.Spinner.Tick)
	case huh.StateAborted:
		m.Quitting = true
		return tea.Quit
	}
	return cmd
}

// HandleLoginResult lands on the dashboard after a successful login and keeps
// the form, minus the password, otherwise.
func HandleLoginResult(m *state.Model, msg LoginResultMsg) tea.Cmd {
	if m.Route != constants.RouteLogin {
		return nil
	}
	m.Submitting = false
	if msg.Err != nil {
		m.FormError = ErrorText(msg.Err)
		m.LoginForm.Password = ""
		m.Form = NewLoginForm(m.LoginForm, m.DarkMode)
		return m.Form.Init()
	}

	name := m.Auth.Username()
	if name == "" {
		name = msg.Username
	}
	return tea.Batch(
		Navigate(m, constants.RouteDashboard),
		ShowToast(m, "Logged in as "+name, false),
	)
}

// HandleRegisterState handles the register screen
func HandleRegisterState(m *state.Model, msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(k, m.Keys.Switch) && !m.Submitting {
			return Navigate(m, constants.RouteLogin)
		}
		if m.Submitting {
			return nil
		}
	}
	if m.Form == nil {
		return nil
	}

	formState, cmd := updateForm(m, msg)
	switch formState {
	case huh.StateCompleted:
		fm := *m.RegisterForm
		err := validation.ValidateRegister(validation.RegisterForm{
			Username:        fm.Username,
			Email:           fm.Email,
			Password:        fm.Password,
			ConfirmPassword: fm.Confirm,
		})
		if err != nil {
			m.FormError = ErrorText(err)
			m.Form = NewRegisterForm(m.RegisterForm, m.DarkMode)
			return m.Form.Init()
		}
		m.FormError = ""
		m.Submitting = true
		return tea.Batch(registerCmd(m.Auth, api.RegisterRequest{
			Username: fm.Username,
			Email:    fm.Email,
			Password: fm.Password,
		}), m.Spinner.Tick)
	case huh.StateAborted:
		m.Quitting = true
		return tea.Quit
	}
	return cmd
}

// HandleRegisterResult sends the user to the login screen on success.
// Registering never signs in.
func HandleRegisterResult(m *state.Model, msg RegisterResultMsg) tea.Cmd {
	if m.Route != constants.RouteRegister {
		return nil
	}
	m.Submitting = false
	if !msg.Result.Success {
		m.FormError = msg.Result.Message
		m.Form = NewRegisterForm(m.RegisterForm, m.DarkMode)
		return m.Form.Init()
	}

	cmd := Navigate(m, constants.RouteLogin)
	if m.Route == constants.RouteLogin {
		cmd = openLogin(m, msg.Username)
	}
	return tea.Batch(cmd, ShowToast(m, msg.Result.Message, false))
}

// Logout clears the session and returns to the login screen. Replies to
// requests issued before it are ignored.
func Logout(m *state.Model) tea.Cmd {
	var toast tea.Cmd
	if err := m.Auth.Logout(); err != nil {
		toast = ShowToast(m, "Failed to clear session: "+ErrorText(err), true)
	} else {
		toast = ShowToast(m, "Logged out", false)
	}
	m.Session++
	m.Dashboard = dashboard.State{}
	m.Marking = map[int]bool{}
	m.SyncList()
	return tea.Batch(Navigate(m, constants.RouteLogin), toast)
}
