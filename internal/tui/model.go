package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smarthabit/internal/auth"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/dashboard"
	"github.com/julianstephens/smarthabit/internal/storage"
	"github.com/julianstephens/smarthabit/internal/tui/handlers"
	"github.com/julianstephens/smarthabit/internal/tui/state"
)

type Model struct {
	state.Model
	initCmd tea.Cmd
}

// NewModel builds the shell on the root route, which the auth guard resolves
// to the dashboard or the login screen.
func NewModel(a *auth.Context, svc dashboard.HabitService, store storage.Provider) (Model, error) {
	prefs, err := store.GetPreferences()
	if err != nil {
		return Model{}, fmt.Errorf("failed to load preferences: %w", err)
	}

	m := Model{Model: state.New(a, svc, store, prefs)}
	m.initCmd = handlers.Navigate(&m.Model, constants.RouteRoot)
	return m, nil
}

func (m Model) ShortHelp() []key.Binding {
	if m.Route != constants.RouteDashboard {
		return []key.Binding{m.Keys.Switch}
	}
	switch m.State {
	case constants.StateList:
		return []key.Binding{m.Keys.Add, m.Keys.Mark, m.Keys.Heatmap, m.Keys.Filter, m.Keys.Quit, m.Keys.Help}
	default:
		return nil
	}
}

func (m Model) FullHelp() [][]key.Binding {
	if m.Route != constants.RouteDashboard || m.State != constants.StateList {
		return [][]key.Binding{m.ShortHelp()}
	}
	global := []key.Binding{m.Keys.Quit, m.Keys.Help, m.Keys.Theme, m.Keys.Logout}
	navigation := []key.Binding{m.Keys.Up, m.Keys.Down, m.Keys.Filter, m.Keys.Refresh}
	actions := []key.Binding{m.Keys.Add, m.Keys.Mark, m.Keys.Heatmap, m.Keys.Delete}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initCmd, handlers.WaitForNextDay(m.Now()))
}
