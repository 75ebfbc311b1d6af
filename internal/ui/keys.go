package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the global keybindings; views handle their own keys
type KeyMap struct {
	DashboardView key.Binding
	BoardView     key.Binding
	AssistantView key.Binding

	Help       key.Binding
	ThemeCycle key.Binding
	Quit       key.Binding
	Back       key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		DashboardView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		BoardView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "board"),
		),
		AssistantView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "assistant"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.DashboardView, k.BoardView, k.AssistantView},
		{k.Help, k.ThemeCycle, k.Quit},
	}
}
