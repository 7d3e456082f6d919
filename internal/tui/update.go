package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/tui/handlers"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		// header, banner, filter line, toast and help
		m.HabitsModel.SetSize(msg.Width-4, msg.Height-9)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case handlers.ToastExpiredMsg:
		handlers.HandleToastExpired(&m.Model, msg)
		return m, nil

	case handlers.DayChangedMsg:
		return m, handlers.HandleDayChanged(&m.Model)

	case handlers.LoginResultMsg:
		return m, handlers.HandleLoginResult(&m.Model, msg)

	case handlers.RegisterResultMsg:
		return m, handlers.HandleRegisterResult(&m.Model, msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
	}

	if handled, cmd := handlers.HandleHabitMessages(&m.Model, msg); handled {
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.Route {
	case constants.RouteLogin:
		cmd = handlers.HandleLoginState(&m.Model, msg)
	case constants.RouteRegister:
		cmd = handlers.HandleRegisterState(&m.Model, msg)
	case constants.RouteDashboard:
		switch m.State {
		case constants.StateAddHabit:
			cmd = handlers.HandleAddHabitState(&m.Model, msg)
		case constants.StateHeatmap:
			cmd = handlers.HandleHeatmapState(&m.Model, msg)
		case constants.StateConfirmDelete:
			cmd = handlers.HandleConfirmDeleteState(&m.Model, msg)
		default:
			cmd = handlers.HandleListState(&m.Model, msg)
		}
	}
	return m, cmd
}

// busy reports whether something on screen is waiting on the server.
func (m Model) busy() bool {
	return m.Submitting || m.Dashboard.Loading || len(m.Marking) > 0
}
