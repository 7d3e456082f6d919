package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/smarthabit/internal/api"
	"github.com/julianstephens/smarthabit/internal/apitest"
	"github.com/julianstephens/smarthabit/internal/auth"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/dashboard"
	"github.com/julianstephens/smarthabit/internal/models"
	"github.com/julianstephens/smarthabit/internal/session"
	"github.com/julianstephens/smarthabit/internal/storage/sqlite"
	"github.com/julianstephens/smarthabit/internal/tui/components/habits"
	"github.com/julianstephens/smarthabit/internal/tui/handlers"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)

func newTestModel(t *testing.T, serverURL string, loggedIn bool) (Model, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	tokens := session.NewMemoryTokenStore()
	if loggedIn {
		require.NoError(t, tokens.Save(apitest.AccessToken, "refresh"))
	}
	client := api.New(serverURL, tokens)
	a, err := auth.NewContext(client.Auth())
	require.NoError(t, err)

	m, err := NewModel(a, client.Habits(), store)
	require.NoError(t, err)
	m.Now = func() time.Time { return testNow }
	return m, store
}

// run executes cmd and feeds the replies it produces back into m. Timers and
// form internals are dropped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := execute(c).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case handlers.FetchedMsg, handlers.CreatedMsg, handlers.MarkedMsg, handlers.DeletedMsg,
			handlers.LoginResultMsg, handlers.RegisterResultMsg,
			habits.AddHabitMsg, habits.MarkHabitMsg, habits.HeatmapMsg, habits.DeleteHabitMsg:
			m, cmd = update(m, msg)
			queue = append(queue, cmd)
		}
	}
	return m
}

func execute(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		return nil
	}
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func day(s string) *string { return &s }

func TestNewModelRoutesByAuthState(t *testing.T) {
	srv := apitest.NewServer(t)

	m, _ := newTestModel(t, srv.URL, false)
	assert.Equal(t, constants.RouteLogin, m.Route)
	assert.NotNil(t, m.Form)

	m, _ = newTestModel(t, srv.URL, true)
	assert.Equal(t, constants.RouteDashboard, m.Route)
	assert.True(t, m.Dashboard.Loading)
	assert.Equal(t, dashboard.ViewLoading, dashboard.Decide(m.Dashboard).View)
}

func TestGuardKeepsSignedInUserOffRegister(t *testing.T) {
	srv := apitest.NewServer(t)
	m, _ := newTestModel(t, srv.URL, true)

	handlers.Navigate(&m.Model, constants.RouteRegister)
	assert.Equal(t, constants.RouteDashboard, m.Route)
}

func TestInitFetchesHabits(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed(
		models.Habit{ID: 1, Name: "Read", Tag: models.TagLearning},
		models.Habit{ID: 2, Name: "Run", Tag: models.TagFitness, LastCompleted: day("2025-03-14")},
	)
	m, _ := newTestModel(t, srv.URL, true)

	m = run(t, m, m.Init())

	assert.False(t, m.Dashboard.Loading)
	assert.NoError(t, m.Dashboard.Err)
	assert.Len(t, m.Dashboard.Habits, 2)
	assert.Equal(t, 2, m.HabitsModel.Len())
	assert.Contains(t, m.View(), "Filter: All")
}

func TestFetchFailureShowsRetry(t *testing.T) {
	url := apitest.Static(t, 500, `{}`)
	m, _ := newTestModel(t, url, true)

	m = run(t, m, m.Init())

	d := dashboard.Decide(m.Dashboard)
	require.Equal(t, dashboard.ViewFatal, d.View)
	view := m.View()
	assert.Contains(t, view, "Error loading habits")
	assert.Contains(t, view, "[r] Retry")
}

func TestLoginResult(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed(models.Habit{ID: 1, Name: "Read", Tag: models.TagLearning})
	m, _ := newTestModel(t, srv.URL, false)

	m, _ = update(m, handlers.LoginResultMsg{
		Username: "ada",
		Err:      &api.Error{Kind: api.KindAuth, Status: 401, Message: constants.MsgInvalidCredentials},
	})
	assert.Equal(t, constants.RouteLogin, m.Route)
	assert.Equal(t, constants.MsgInvalidCredentials, m.FormError)

	require.NoError(t, m.Auth.Login(context.Background(), "ada", "lovelace"))
	m, cmd := update(m, handlers.LoginResultMsg{Username: "ada"})
	assert.Equal(t, constants.RouteDashboard, m.Route)
	require.NotNil(t, m.Toast)
	assert.Equal(t, "Logged in as ada", m.Toast.Text)

	m = run(t, m, cmd)
	assert.Len(t, m.Dashboard.Habits, 1)
}

func TestRegisterResultReturnsToLogin(t *testing.T) {
	srv := apitest.NewServer(t)
	m, _ := newTestModel(t, srv.URL, false)
	handlers.Navigate(&m.Model, constants.RouteRegister)
	require.Equal(t, constants.RouteRegister, m.Route)

	m, _ = update(m, handlers.RegisterResultMsg{
		Username: "grace",
		Result:   api.RegisterResult{Success: false, Message: "Username already taken"},
	})
	assert.Equal(t, constants.RouteRegister, m.Route)
	assert.Equal(t, "Username already taken", m.FormError)

	m, _ = update(m, handlers.RegisterResultMsg{
		Username: "grace",
		Result:   api.RegisterResult{Success: true, Message: constants.MsgRegistrationOK},
	})
	assert.Equal(t, constants.RouteLogin, m.Route)
	assert.False(t, m.Auth.Authenticated())
	require.NotNil(t, m.LoginForm)
	assert.Equal(t, "grace", m.LoginForm.Username)
	require.NotNil(t, m.Toast)
	assert.Equal(t, constants.MsgRegistrationOK, m.Toast.Text)
}

func TestRepliesFromBeforeLogoutAreIgnored(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed(models.Habit{ID: 1, Name: "Read", Tag: models.TagLearning})
	m, _ := newTestModel(t, srv.URL, true)

	stale := execute(handlers.Fetch(&m.Model))
	require.IsType(t, handlers.FetchedMsg{}, stale)

	m, _ = update(m, press("L"))
	require.Equal(t, constants.RouteLogin, m.Route)
	require.False(t, m.Auth.Authenticated())

	m, _ = update(m, stale)
	assert.Empty(t, m.Dashboard.Habits)
	assert.Equal(t, 0, m.HabitsModel.Len())
}

func TestTagFilter(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed(
		models.Habit{ID: 1, Name: "Walk", Tag: models.TagHealth},
		models.Habit{ID: 2, Name: "Run", Tag: models.TagFitness},
	)
	m, _ := newTestModel(t, srv.URL, true)
	m = run(t, m, m.Init())
	requests := srv.RequestCount()

	m, _ = update(m, press("f"))
	assert.Equal(t, models.TagHealth, m.Tag)
	assert.Equal(t, 1, m.HabitsModel.Len())
	assert.Len(t, m.Dashboard.Habits, 2, "filtering must not touch the fetched list")
	assert.Equal(t, requests, srv.RequestCount(), "filtering must not call the server")

	m, _ = update(m, press("f"))
	assert.Equal(t, models.TagProductivity, m.Tag)
	assert.Equal(t, 0, m.HabitsModel.Len())
	assert.Contains(t, m.View(), constants.MsgNoHabitsFound)
}

func TestThemeTogglePersists(t *testing.T) {
	srv := apitest.NewServer(t)
	m, store := newTestModel(t, srv.URL, true)
	require.False(t, m.DarkMode)

	m, _ = update(m, press("t"))
	assert.True(t, m.DarkMode)

	prefs, err := store.GetPreferences()
	require.NoError(t, err)
	assert.True(t, prefs.DarkMode)

	// survives logout
	m, _ = update(m, press("L"))
	assert.True(t, m.DarkMode)
	prefs, err = store.GetPreferences()
	require.NoError(t, err)
	assert.True(t, prefs.DarkMode)
}

func TestToastExpiry(t *testing.T) {
	srv := apitest.NewServer(t)
	m, _ := newTestModel(t, srv.URL, true)

	handlers.ShowToast(&m.Model, "first", false)
	first := m.Toast.ID
	handlers.ShowToast(&m.Model, "second", true)

	m, _ = update(m, handlers.ToastExpiredMsg{ID: first})
	require.NotNil(t, m.Toast, "an older expiry must not hide a newer toast")
	assert.Equal(t, "second", m.Toast.Text)

	m, _ = update(m, handlers.ToastExpiredMsg{ID: m.Toast.ID})
	assert.Nil(t, m.Toast)
}

func TestMarkDoneSendsOneRequest(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed(models.Habit{ID: 1, Name: "Read", Tag: models.TagLearning})
	m, _ := newTestModel(t, srv.URL, true)
	m = run(t, m, m.Init())

	m, cmd := update(m, press("m"))
	require.NotNil(t, cmd)
	msg := execute(cmd)
	require.Equal(t, habits.MarkHabitMsg{ID: 1}, msg)

	m, markCmd := update(m, msg)
	require.NotNil(t, markCmd)
	assert.True(t, m.Marking[1])

	m, _ = update(m, habits.MarkHabitMsg{ID: 1})
	require.NotNil(t, m.Toast)
	assert.Equal(t, constants.MsgMarkAlreadyInFlight, m.Toast.Text)

	m = run(t, m, markCmd)
	assert.False(t, m.Marking[1])
	require.NotNil(t, m.Toast)
	assert.Contains(t, m.Toast.Text, "Streak: 1")

	stored := srv.Habits()
	require.Len(t, stored, 1)
	assert.Equal(t, 1, stored[0].Streak)
	require.Len(t, m.Dashboard.Habits, 1)
	assert.False(t, dashboard.CanMarkDone(m.Dashboard.Habits[0], testNow))
}

func TestMarkDoneSkipsHabitDoneToday(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed(models.Habit{ID: 1, Name: "Read", Tag: models.TagLearning, LastCompleted: day("2025-03-14"), Streak: 3})
	m, _ := newTestModel(t, srv.URL, true)
	m = run(t, m, m.Init())
	requests := srv.RequestCount()

	m, cmd := update(m, habits.MarkHabitMsg{ID: 1})
	assert.Nil(t, cmd)
	assert.False(t, m.Marking[1])
	assert.Equal(t, requests, srv.RequestCount())
}

func TestMarkDoneServerRejection(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.SetToday("2025-03-15")
	// logged on the server's today, which the client clock has not reached
	srv.Seed(models.Habit{ID: 1, Name: "Read", Tag: models.TagLearning, LastCompleted: day("2025-03-15"), Streak: 2})
	m, _ := newTestModel(t, srv.URL, true)
	m = run(t, m, m.Init())
	habitsBefore := m.Dashboard.Habits

	m, cmd := update(m, press("m"))
	require.NotNil(t, cmd)
	msg := execute(cmd)
	require.Equal(t, habits.MarkHabitMsg{ID: 1}, msg)
	m, markCmd := update(m, msg)
	require.NotNil(t, markCmd)
	before := srv.RequestCount()

	m = run(t, m, markCmd)

	assert.Equal(t, before+1, srv.RequestCount(), "a rejection must not refetch")
	assert.False(t, m.Marking[1])
	require.NotNil(t, m.Toast)
	assert.True(t, m.Toast.Err)
	assert.Equal(t, "Habit already logged for today.", m.Toast.Text)
	assert.Equal(t, "Habit already logged for today.", m.Banner)
	assert.Equal(t, habitsBefore, m.Dashboard.Habits)
	assert.Equal(t, 2, srv.Habits()[0].Streak)
}

func TestRowsFollowTheClockAcrossMidnight(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed(models.Habit{ID: 1, Name: "Read", Tag: models.TagLearning, LastCompleted: day("2025-03-14"), Streak: 3})
	m, _ := newTestModel(t, srv.URL, true)
	clock := testNow
	m.Now = func() time.Time { return clock }
	m, _ = update(m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m = run(t, m, m.Init())

	assert.Contains(t, m.HabitsModel.View(), "✓ Read")
	m, cmd := update(m, press("m"))
	assert.Nil(t, cmd)

	clock = time.Date(2025, 3, 15, 0, 0, 1, 0, time.Local)
	m, cmd = update(m, handlers.DayChangedMsg{})
	assert.NotNil(t, cmd, "the next midnight is scheduled")

	view := m.HabitsModel.View()
	assert.Contains(t, view, "○ Read")
	assert.NotContains(t, view, "✓ Read")

	m, cmd = update(m, press("m"))
	require.NotNil(t, cmd)
	assert.Equal(t, habits.MarkHabitMsg{ID: 1}, execute(cmd))
}

func TestWaitForNextDayFiresAtMidnight(t *testing.T) {
	now := time.Date(2025, 3, 14, 23, 59, 59, 950_000_000, time.Local)
	assert.Equal(t, handlers.DayChangedMsg{}, execute(handlers.WaitForNextDay(now)))
}

func TestCreateHabitResult(t *testing.T) {
	srv := apitest.NewServer(t)
	m, _ := newTestModel(t, srv.URL, true)
	m = run(t, m, m.Init())

	m, _ = update(m, habits.AddHabitMsg{})
	require.Equal(t, constants.StateAddHabit, m.State)
	require.NotNil(t, m.HabitForm)

	m, _ = update(m, handlers.CreatedMsg{
		Session: m.Session,
		Err:     &api.Error{Kind: api.KindValidation, Status: 400, Message: "Habit name must be at least 3 characters."},
	})
	assert.Equal(t, constants.StateAddHabit, m.State, "a failed create keeps the modal open")
	assert.Equal(t, "Habit name must be at least 3 characters.", m.FormError)
	require.NotNil(t, m.Toast)
	assert.True(t, m.Toast.Err)

	srv.Seed(models.Habit{ID: 7, Name: "Stretch", Tag: models.TagSelfCare})
	m, cmd := update(m, handlers.CreatedMsg{Session: m.Session, Habit: models.Habit{ID: 7, Name: "Stretch"}})
	assert.Equal(t, constants.StateList, m.State)
	assert.Nil(t, m.HabitForm)
	require.NotNil(t, m.Toast)
	assert.Equal(t, constants.MsgHabitCreated, m.Toast.Text)

	m = run(t, m, cmd)
	require.Len(t, m.Dashboard.Habits, 1)
	assert.Equal(t, "Stretch", m.Dashboard.Habits[0].Name)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed(models.Habit{ID: 1, Name: "Read", Tag: models.TagLearning})
	m, _ := newTestModel(t, srv.URL, true)
	m = run(t, m, m.Init())

	m, _ = update(m, habits.DeleteHabitMsg{ID: 1})
	require.Equal(t, constants.StateConfirmDelete, m.State)
	assert.Contains(t, m.View(), `"Read"`)

	m, cmd := update(m, press("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, constants.StateList, m.State)
	assert.Len(t, srv.Habits(), 1)

	m, _ = update(m, habits.DeleteHabitMsg{ID: 1})
	m, cmd = update(m, press("y"))
	require.NotNil(t, cmd)
	m = run(t, m, cmd)
	assert.Empty(t, srv.Habits())
	assert.Empty(t, m.Dashboard.Habits)
	assert.Equal(t, dashboard.ViewEmpty, dashboard.Decide(m.Dashboard).View)
}

func TestHeatmapModal(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed(models.Habit{
		ID: 1, Name: "Read", Tag: models.TagLearning,
		Logs: []models.HabitLog{{Date: "2025-03-13"}, {Date: "2025-03-14"}},
	})
	m, _ := newTestModel(t, srv.URL, true)
	m = run(t, m, m.Init())

	m, _ = update(m, habits.HeatmapMsg{ID: 1})
	require.Equal(t, constants.StateHeatmap, m.State)
	view := m.View()
	assert.Contains(t, view, "2 days logged since Jan 1, 2024")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, constants.StateList, m.State)
}

func TestSpinnerStopsWhenIdle(t *testing.T) {
	srv := apitest.NewServer(t)
	m, _ := newTestModel(t, srv.URL, true)
	m = run(t, m, m.Init())
	require.False(t, m.busy())

	_, cmd := update(m, m.Spinner.Tick())
	assert.Nil(t, cmd)
}

func TestViewHeaderShowsTheme(t *testing.T) {
	srv := apitest.NewServer(t)
	m, _ := newTestModel(t, srv.URL, false)
	assert.Contains(t, m.View(), "theme: light")
	assert.Contains(t, m.View(), "ctrl+n to register")
}
