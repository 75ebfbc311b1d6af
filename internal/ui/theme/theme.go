// Package theme holds the color palettes of the terminal board and the
// lipgloss styles derived from them.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/projectflow/internal/model"
)

// Theme defines the color scheme for the UI
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	PriorityLow    lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityHigh   lipgloss.Color

	StatusTodo       lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusDone       lipgloss.Color

	// Carried marks a card that has been picked up on the board
	Carried lipgloss.Color
}

// StatusColor returns the column color of s
func (t Theme) StatusColor(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusInProgress:
		return t.StatusInProgress
	case model.StatusDone:
		return t.StatusDone
	default:
		return t.StatusTodo
	}
}

// PriorityColor returns the marker color of p
func (t Theme) PriorityColor(p model.Priority) lipgloss.Color {
	switch p {
	case model.PriorityHigh:
		return t.PriorityHigh
	case model.PriorityMedium:
		return t.PriorityMedium
	case model.PriorityLow:
		return t.PriorityLow
	default:
		return t.Subtle
	}
}

// PriorityMark renders the one character priority marker of a card
func (t Theme) PriorityMark(p model.Priority) string {
	mark := " "
	switch p {
	case model.PriorityHigh:
		mark = "▲"
	case model.PriorityMedium:
		mark = "●"
	case model.PriorityLow:
		mark = "▽"
	}
	return lipgloss.NewStyle().Foreground(t.PriorityColor(p)).Render(mark)
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	DueDate  lipgloss.Style
	Overdue  lipgloss.Style

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardDone     lipgloss.Style

	Input lipgloss.Style
	Panel lipgloss.Style

	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	ChatUser      lipgloss.Style
	ChatAssistant lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		DueDate: lipgloss.NewStyle().
			Foreground(t.Warning),

		Overdue: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Card: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		CardSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Padding(0, 1),

		CardDone: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Strikethrough(true).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),

		ChatUser: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),

		ChatAssistant: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Nord,
	Styles: NewStyles(Nord),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{Nord, Dracula, Gruvbox, Catppuccin}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Next returns the theme after the one named current, wrapping around
func Next(current string) Theme {
	themes := Available()
	for i, t := range themes {
		if t.Name == current {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
