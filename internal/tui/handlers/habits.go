package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/smarthabit/internal/api"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/dashboard"
	"github.com/julianstephens/smarthabit/internal/logger"
	"github.com/julianstephens/smarthabit/internal/models"
	"github.com/julianstephens/smarthabit/internal/tui/components/habits"
	"github.com/julianstephens/smarthabit/internal/tui/state"
	"github.com/julianstephens/smarthabit/internal/validation"
)

// Replies to dashboard requests. Session is the state.Model session the
// request was issued in.

type FetchedMsg struct {
	Session int
	Result  dashboard.FetchResult
}

type CreatedMsg struct {
	Session int
	Habit   models.Habit
	Err     error
}

type MarkedMsg struct {
	Session int
	ID      int
	Result  api.LogResult
	Err     error
}

type DeletedMsg struct {
	Session int
	ID      int
	Err     error
}

// Fetch issues a full list fetch. The result is applied by the syncer, which
// drops it if a newer fetch has already landed.
func Fetch(m *state.Model) tea.Cmd {
	syncer, session := m.Syncer, m.Session
	gen := syncer.Begin()
	m.Dashboard.Loading = true
	return func() tea.Msg {
		return FetchedMsg{Session: session, Result: syncer.Fetch(context.Background(), gen)}
	}
}

func createCmd(m *state.Model, draft models.HabitDraft) tea.Cmd {
	syncer, session := m.Syncer, m.Session
	return func() tea.Msg {
		h, err := syncer.Create(context.Background(), draft)
		return CreatedMsg{Session: session, Habit: h, Err: err}
	}
}

func markCmd(m *state.Model, id int) tea.Cmd {
	syncer, session := m.Syncer, m.Session
	return func() tea.Msg {
		res, err := syncer.MarkDone(context.Background(), id)
		return MarkedMsg{Session: session, ID: id, Result: res, Err: err}
	}
}

func deleteCmd(m *state.Model, id int) tea.Cmd {
	syncer, session := m.Syncer, m.Session
	return func() tea.Msg {
		return DeletedMsg{Session: session, ID: id, Err: syncer.Delete(context.Background(), id)}
	}
}

// HandleListState handles keys on the dashboard itself. Keys it does not own
// go to the habit list.
func HandleListState(m *state.Model, msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.Keys.Quit):
			m.Quitting = true
			return tea.Quit
		case key.Matches(k, m.Keys.Help):
			m.Help.ShowAll = !m.Help.ShowAll
			return nil
		case key.Matches(k, m.Keys.Theme):
			return ToggleTheme(m)
		case key.Matches(k, m.Keys.Logout):
			return Logout(m)
		case key.Matches(k, m.Keys.Refresh):
			m.Banner = ""
			return tea.Batch(Fetch(m), m.Spinner.Tick)
		case key.Matches(k, m.Keys.Filter):
			m.Tag = dashboard.NextTag(m.Tag)
			m.SyncList()
			return nil
		}
		if dashboard.Decide(m.Dashboard).View != dashboard.ViewList && !key.Matches(k, m.Keys.Add) {
			return nil
		}
	}

	var cmd tea.Cmd
	m.HabitsModel, cmd = m.HabitsModel.Update(msg)
	return cmd
}

// HandleHabitMessages handles requests from the list component and replies
// from the server.
func HandleHabitMessages(m *state.Model, msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.HabitForm = &state.HabitFormModel{}
		m.Form = NewHabitForm(m.HabitForm, m.DarkMode)
		m.FormError = ""
		m.State = constants.StateAddHabit
		return true, m.Form.Init()

	case habits.MarkHabitMsg:
		return true, markDone(m, msg.ID)

	case habits.HeatmapMsg:
		m.HeatmapID = msg.ID
		m.State = constants.StateHeatmap
		return true, nil

	case habits.DeleteHabitMsg:
		m.DeleteID = msg.ID
		m.State = constants.StateConfirmDelete
		return true, nil

	case FetchedMsg:
		if msg.Session != m.Session {
			return true, nil
		}
		if st, applied := m.Syncer.Apply(m.Dashboard, msg.Result); applied {
			m.Dashboard = st
			m.SyncList()
		}
		return true, nil

	case CreatedMsg:
		if msg.Session != m.Session {
			return true, nil
		}
		m.Submitting = false
		if msg.Err != nil {
			text := ErrorText(msg.Err)
			if m.State == constants.StateAddHabit && m.HabitForm != nil {
				m.FormError = text
				m.Form = NewHabitForm(m.HabitForm, m.DarkMode)
				return true, tea.Batch(m.Form.Init(), ShowToast(m, text, true))
			}
			m.Banner = text
			return true, ShowToast(m, text, true)
		}
		logger.Info("habit created", "id", msg.Habit.ID)
		m.State = constants.StateList
		m.HabitForm = nil
		m.Form = nil
		m.FormError = ""
		return true, tea.Batch(ShowToast(m, constants.MsgHabitCreated, false), Fetch(m))

	case MarkedMsg:
		if msg.Session != m.Session {
			return true, nil
		}
		delete(m.Marking, msg.ID)
		if msg.Err != nil {
			text := ErrorText(msg.Err)
			if !errors.Is(msg.Err, dashboard.ErrInFlight) {
				m.Banner = text
			}
			m.SyncList()
			return true, ShowToast(m, text, true)
		}
		text := msg.Result.Detail
		if text == "" {
			text = constants.MsgMarkedDone
		}
		text = fmt.Sprintf("%s Streak: %d days", text, msg.Result.Streak)
		m.SyncList()
		return true, tea.Batch(ShowToast(m, text, false), Fetch(m))

	case DeletedMsg:
		if msg.Session != m.Session {
			return true, nil
		}
		if msg.Err != nil {
			text := ErrorText(msg.Err)
			m.Banner = text
			return true, ShowToast(m, text, true)
		}
		return true, tea.Batch(ShowToast(m, "Habit deleted", false), Fetch(m))
	}
	return false, nil
}

// markDone sends the add-log request unless the habit is already done today
// or a request for it is still pending.
func markDone(m *state.Model, id int) tea.Cmd {
	h, ok := m.FindHabit(id)
	if !ok {
		return nil
	}
	if m.Marking[id] || m.Syncer.Pending(id) {
		return ShowToast(m, constants.MsgMarkAlreadyInFlight, true)
	}
	if !dashboard.CanMarkDone(h, m.Now()) {
		return nil
	}
	m.Marking[id] = true
	m.Banner = ""
	m.SyncList()
	return markCmd(m, id)
}

// HandleAddHabitState handles the create-habit modal
func HandleAddHabitState(m *state.Model, msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		if k.Type == tea.KeyEsc && !m.Submitting {
			closeAddHabit(m)
			return nil
		}
		if m.Submitting {
			return nil
		}
	}

	formState, cmd := updateForm(m, msg)
	switch formState {
	case huh.StateCompleted:
		draft := models.HabitDraft{
			Name:           m.HabitForm.Name,
			Description:    m.HabitForm.Description,
			Tag:            m.HabitForm.Tag,
			ProgressStatus: constants.DefaultProgressStatus,
		}
		if err := validation.ValidateDraft(draft); err != nil {
			m.FormError = ErrorText(err)
			m.Form = NewHabitForm(m.HabitForm, m.DarkMode)
			return m.Form.Init()
		}
		m.FormError = ""
		m.Submitting = true
		return tea.Batch(createCmd(m, draft), m.Spinner.Tick)
	case huh.StateAborted:
		closeAddHabit(m)
		return nil
	}
	return cmd
}

// closeAddHabit discards the draft.
func closeAddHabit(m *state.Model) {
	m.HabitForm = nil
	m.Form = nil
	m.FormError = ""
	m.State = constants.StateList
}

// HandleHeatmapState handles the heatmap modal
func HandleHeatmapState(m *state.Model, msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case k.Type == tea.KeyEsc, key.Matches(k, m.Keys.Heatmap), key.Matches(k, m.Keys.Quit):
			m.HeatmapID = 0
			m.State = constants.StateList
		}
	}
	return nil
}

// HandleConfirmDeleteState handles the delete confirmation
func HandleConfirmDeleteState(m *state.Model, msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "y", "Y":
			id := m.DeleteID
			m.DeleteID = 0
			m.State = constants.StateList
			return deleteCmd(m, id)
		case "n", "N", "esc":
			m.DeleteID = 0
			m.State = constants.StateList
		}
	}
	return nil
}
