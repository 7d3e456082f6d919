package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/smarthabit/internal/api"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/dashboard"
	"github.com/julianstephens/smarthabit/internal/models"
)

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	s := NewStyles(m.DarkMode)

	var content string
	switch m.Route {
	case constants.RouteLogin:
		content = m.viewAuthForm(s, "Log in", "No account? Press ctrl+n to register.")
	case constants.RouteRegister:
		content = m.viewAuthForm(s, "Create an account", "Already registered? Press ctrl+n to log in.")
	case constants.RouteDashboard:
		switch m.State {
		case constants.StateAddHabit:
			content = m.viewAddHabit(s)
		case constants.StateHeatmap:
			content = m.viewHeatmap(s)
		case constants.StateConfirmDelete:
			content = m.viewConfirmDelete(s)
		default:
			content = m.viewDashboard(s)
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(s),
		content,
		m.viewToast(s),
		m.Help.View(m),
	)
}

func (m Model) viewHeader(s Styles) string {
	title := s.Title.Render("Smart Habit Tracker")
	theme := "light"
	if m.DarkMode {
		theme = "dark"
	}
	info := "theme: " + theme
	if m.Auth.Authenticated() {
		if name := m.Auth.Username(); name != "" {
			info = name + " · " + info
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", s.Subtle.Render(info))
}

func (m Model) viewAuthForm(s Styles, title, hint string) string {
	parts := []string{s.Title.Render(title), ""}
	if m.FormError != "" {
		parts = append(parts, s.Danger.Render(m.FormError), "")
	}
	if m.Form != nil {
		parts = append(parts, m.Form.View())
	}
	if m.Submitting {
		parts = append(parts, m.Spinner.View()+" Please wait...")
	}
	parts = append(parts, "", s.Subtle.Render(hint))
	return s.Doc.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewDashboard(s Styles) string {
	d := dashboard.Decide(m.Dashboard)

	var parts []string
	switch d.View {
	case dashboard.ViewLoading:
		parts = append(parts, m.Spinner.View()+" Loading habits...")
	case dashboard.ViewFatal:
		parts = append(parts, s.Danger.Render(d.Message))
		if hint := m.fetchHint(); hint != "" {
			parts = append(parts, s.Subtle.Render(hint))
		}
		if d.Retry {
			parts = append(parts, "", "[r] Retry")
		}
	case dashboard.ViewEmpty:
		if d.Banner != "" {
			parts = append(parts, s.Banner.Render(d.Banner))
		}
		parts = append(parts, d.Message, "", "[a] Add your first habit")
	default:
		if d.Banner != "" {
			parts = append(parts, s.Banner.Render(d.Banner))
		}
		if m.Banner != "" {
			parts = append(parts, s.Danger.Render(m.Banner))
		}
		parts = append(parts, s.Subtle.Render("Filter: "+string(m.Tag)))
		if len(m.Visible()) == 0 {
			parts = append(parts, "", constants.MsgNoHabitsFound)
		} else {
			parts = append(parts, m.HabitsModel.View())
		}
	}
	return s.Doc.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// fetchHint suggests a way out of a failed fetch.
func (m Model) fetchHint() string {
	if m.Dashboard.Err == nil {
		return ""
	}
	return api.Classify(m.Dashboard.Err).Hint()
}

func (m Model) viewAddHabit(s Styles) string {
	parts := []string{s.Title.Render("New habit"), ""}
	if m.FormError != "" {
		parts = append(parts, s.Danger.Render(m.FormError), "")
	}
	if m.Form != nil {
		parts = append(parts, m.Form.View())
	}
	if m.Submitting {
		parts = append(parts, m.Spinner.View()+" Creating habit...")
	}
	parts = append(parts, "", s.Subtle.Render("[esc] Cancel"))
	return m.place(s.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
}

func (m Model) viewHeatmap(s Styles) string {
	h, ok := m.FindHabit(m.HeatmapID)
	if !ok {
		return m.place(s.Modal.Render("Habit not found\n\n[esc] Close"))
	}

	hm := dashboard.HabitHeatmap(h, m.Now())
	if m.Width > 0 {
		hm = hm.Tail(m.Width - 16)
	}
	grid := hm.Render(s.CellFull.Render("■"), s.CellEmpty.Render("□"), " ")

	return m.place(s.Modal.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		s.Title.Render(h.Name),
		s.Subtle.Render(habitSummary(h)),
		"",
		grid,
		fmt.Sprintf("%d days logged since %s", hm.Filled, hm.Start.Format("Jan 2, 2006")),
		"",
		s.Subtle.Render("[esc] Close"),
	)))
}

func habitSummary(h models.Habit) string {
	summary := fmt.Sprintf("%s · streak %d", h.Tag, h.Streak)
	if h.LastCompleted != nil {
		summary += " · last " + *h.LastCompleted
	}
	return summary
}

func (m Model) viewConfirmDelete(s Styles) string {
	name := "this habit"
	if h, ok := m.FindHabit(m.DeleteID); ok {
		name = fmt.Sprintf("%q", h.Name)
	}
	return m.place(lipgloss.JoinVertical(lipgloss.Center,
		s.Danger.Render(fmt.Sprintf("Are you sure you want to delete %s?", name)),
		"",
		"[y] Yes",
		"[n] No",
	))
}

func (m Model) viewToast(s Styles) string {
	if m.Toast == nil {
		return ""
	}
	if m.Toast.Err {
		return s.ToastErr.Render(m.Toast.Text)
	}
	return s.ToastOK.Render(m.Toast.Text)
}

// place centers content below the header.
func (m Model) place(content string) string {
	if m.Width == 0 || m.Height == 0 {
		return content
	}
	return lipgloss.Place(m.Width, m.Height-4, lipgloss.Center, lipgloss.Center, content)
}
