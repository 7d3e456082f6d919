package tui

import "github.com/charmbracelet/lipgloss"

// Styles is the palette of one theme.
type Styles struct {
	Doc       lipgloss.Style
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Danger    lipgloss.Style
	Warning   lipgloss.Style
	Banner    lipgloss.Style
	ToastOK   lipgloss.Style
	ToastErr  lipgloss.Style
	Modal     lipgloss.Style
	CellFull  lipgloss.Style
	CellEmpty lipgloss.Style
}

func NewStyles(dark bool) Styles {
	accent, subtle, modalBorder := lipgloss.Color("63"), lipgloss.Color("245"), lipgloss.Color("240")
	cellFull, cellEmpty := lipgloss.Color("34"), lipgloss.Color("252")
	if dark {
		accent, subtle, modalBorder = lipgloss.Color("205"), lipgloss.Color("240"), lipgloss.Color("236")
		cellFull, cellEmpty = lipgloss.Color("42"), lipgloss.Color("238")
	}

	return Styles{
		Doc: lipgloss.NewStyle().Padding(1, 2),
		Title: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Subtle: lipgloss.NewStyle().Foreground(subtle),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true),
		Banner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Bold(true).
			Padding(0, 1),
		ToastOK: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42")).
			Padding(0, 1),
		ToastErr: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("160")).
			Padding(0, 1),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(modalBorder).
			Padding(1, 2),
		CellFull:  lipgloss.NewStyle().Foreground(cellFull),
		CellEmpty: lipgloss.NewStyle().Foreground(cellEmpty),
	}
}
