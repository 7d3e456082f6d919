package state

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the dashboard bindings. Login and register screens only react
// to Quit and Switch since every other key is typed into the form.
type KeyMap struct {
	Quit    key.Binding
	Help    key.Binding
	Switch  key.Binding
	Add     key.Binding
	Mark    key.Binding
	Heatmap key.Binding
	Filter  key.Binding
	Theme   key.Binding
	Refresh key.Binding
	Delete  key.Binding
	Logout  key.Binding
	Up      key.Binding
	Down    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Switch: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "login/register"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add habit"),
		),
		Mark: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark done"),
		),
		Heatmap: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "heatmap"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter by tag"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}
