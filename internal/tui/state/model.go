package state

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/smarthabit/internal/auth"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/dashboard"
	"github.com/julianstephens/smarthabit/internal/models"
	"github.com/julianstephens/smarthabit/internal/storage"
	"github.com/julianstephens/smarthabit/internal/tui/components/habits"
)

// LoginFormModel represents the form model for the login screen
type LoginFormModel struct {
	Username string
	Password string
}

// RegisterFormModel represents the form model for the register screen
type RegisterFormModel struct {
	Username string
	Email    string
	Password string
	Confirm  string
}

// HabitFormModel represents the form model for habit creation
type HabitFormModel struct {
	Name        string
	Description string
	Tag         models.Tag
}

// Toast is a transient notification. ID tells a stale expiry apart from the
// toast currently shown.
type Toast struct {
	ID   int
	Text string
	Err  bool
}

// Model represents the shared state for the TUI
type Model struct {
	Auth   *auth.Context
	Store  storage.Provider
	Syncer *dashboard.Syncer
	// Session changes on logout so replies to requests made before it are
	// ignored
	Session int

	Route       constants.Route
	State       constants.SessionState
	Keys        KeyMap
	Help        help.Model
	Spinner     spinner.Model
	HabitsModel habits.Model

	// Dashboard is the last applied fetch; Tag narrows what the list shows
	Dashboard    dashboard.State
	Tag          models.Tag
	Marking      map[int]bool
	Banner       string
	HeatmapID    int
	DeleteID     int
	Form         *huh.Form
	LoginForm    *LoginFormModel
	RegisterForm *RegisterFormModel
	HabitForm    *HabitFormModel
	FormError    string
	Submitting   bool
	Toast        *Toast
	ToastSeq     int
	DarkMode     bool

	// Now is the clock used for "done today" decisions
	Now func() time.Time

	Quitting bool
	Width    int
	Height   int
}

// New creates a new state Model. The route is resolved by the caller.
func New(a *auth.Context, svc dashboard.HabitService, store storage.Provider, prefs models.Preferences) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		Auth:        a,
		Store:       store,
		Syncer:      dashboard.NewSyncer(svc),
		Route:       constants.RouteRoot,
		State:       constants.StateList,
		Keys:        DefaultKeyMap(),
		Help:        help.New(),
		Spinner:     sp,
		HabitsModel: habits.New(0, 0),
		Tag:         models.TagAll,
		Marking:     map[int]bool{},
		DarkMode:    prefs.DarkMode,
		Now:         time.Now,
	}
}

// Visible returns the habits that pass the tag filter.
func (m *Model) Visible() []models.Habit {
	return dashboard.FilterByTag(m.Dashboard.Habits, m.Tag)
}

// SyncList pushes the filtered habits into the list component.
func (m *Model) SyncList() {
	m.HabitsModel.SetHabits(m.Visible(), m.Now, func(id int) bool {
		return m.Marking[id] || m.Syncer.Pending(id)
	})
}

// FindHabit looks a habit up in the last fetched list.
func (m *Model) FindHabit(id int) (models.Habit, bool) {
	for _, h := range m.Dashboard.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return models.Habit{}, false
}
