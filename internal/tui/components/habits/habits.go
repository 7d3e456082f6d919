package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smarthabit/internal/dashboard"
	"github.com/julianstephens/smarthabit/internal/models"
)

type AddHabitMsg struct{}

type MarkHabitMsg struct {
	ID int
}

type HeatmapMsg struct {
	ID int
}

type DeleteHabitMsg struct {
	ID int
}

// Item is one row. Done-today is evaluated against Now on every render so a
// row left on screen across midnight becomes markable again.
type Item struct {
	Habit   models.Habit
	Now     func() time.Time
	Marking bool
}

func (i Item) DoneToday() bool {
	now := time.Now
	if i.Now != nil {
		now = i.Now
	}
	return !dashboard.CanMarkDone(i.Habit, now())
}

func (i Item) Title() string {
	switch {
	case i.Marking:
		return "… " + i.Habit.Name
	case i.DoneToday():
		return "✓ " + i.Habit.Name
	default:
		return "○ " + i.Habit.Name
	}
}

func (i Item) Description() string {
	parts := []string{string(i.Habit.Tag), fmt.Sprintf("streak %d", i.Habit.Streak)}
	if i.Habit.LastCompleted != nil {
		parts = append(parts, "last "+*i.Habit.LastCompleted)
	}
	if i.Habit.Description != "" {
		parts = append(parts, i.Habit.Description)
	}
	return strings.Join(parts, " · ")
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add     key.Binding
	Mark    key.Binding
	Heatmap key.Binding
	Delete  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Mark: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark done"),
		),
		Heatmap: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "heatmap"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list: l,
		keys: DefaultKeyMap(),
	}
}

// SetHabits replaces the rows. now is the clock the rows consult for
// done-today and marking reports habits with a mark-done call outstanding.
func (m *Model) SetHabits(habits []models.Habit, now func() time.Time, marking func(id int) bool) {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{
			Habit:   h,
			Now:     now,
			Marking: marking != nil && marking(h.ID),
		}
	}
	m.list.SetItems(items)
}

// Selected returns the habit under the cursor.
func (m Model) Selected() (models.Habit, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Habit{}, false
	}
	return i.Habit, true
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Mark):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.DoneToday() && !i.Marking {
				return m, func() tea.Msg { return MarkHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Heatmap):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return HeatmapMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.Marking {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
