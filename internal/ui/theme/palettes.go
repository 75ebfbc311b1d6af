package theme

import "github.com/charmbracelet/lipgloss"

// Nord - https://www.nordtheme.com/
var Nord = Theme{
	Name: "nord",

	Background: lipgloss.Color("#2E3440"),
	Foreground: lipgloss.Color("#ECEFF4"),
	Subtle:     lipgloss.Color("#4C566A"),
	Highlight:  lipgloss.Color("#3B4252"),
	Border:     lipgloss.Color("#4C566A"),

	Primary:   lipgloss.Color("#88C0D0"),
	Secondary: lipgloss.Color("#81A1C1"),
	Info:      lipgloss.Color("#5E81AC"),
	Success:   lipgloss.Color("#A3BE8C"),
	Warning:   lipgloss.Color("#EBCB8B"),
	Error:     lipgloss.Color("#BF616A"),

	PriorityLow:    lipgloss.Color("#A3BE8C"),
	PriorityMedium: lipgloss.Color("#EBCB8B"),
	PriorityHigh:   lipgloss.Color("#BF616A"),

	StatusTodo:       lipgloss.Color("#81A1C1"),
	StatusInProgress: lipgloss.Color("#EBCB8B"),
	StatusDone:       lipgloss.Color("#A3BE8C"),

	Carried: lipgloss.Color("#B48EAD"),
}

// Dracula - https://draculatheme.com/
var Dracula = Theme{
	Name: "dracula",

	Background: lipgloss.Color("#282A36"),
	Foreground: lipgloss.Color("#F8F8F2"),
	Subtle:     lipgloss.Color("#6272A4"),
	Highlight:  lipgloss.Color("#44475A"),
	Border:     lipgloss.Color("#6272A4"),

	Primary:   lipgloss.Color("#BD93F9"),
	Secondary: lipgloss.Color("#8BE9FD"),
	Info:      lipgloss.Color("#8BE9FD"),
	Success:   lipgloss.Color("#50FA7B"),
	Warning:   lipgloss.Color("#F1FA8C"),
	Error:     lipgloss.Color("#FF5555"),

	PriorityLow:    lipgloss.Color("#50FA7B"),
	PriorityMedium: lipgloss.Color("#F1FA8C"),
	PriorityHigh:   lipgloss.Color("#FF5555"),

	StatusTodo:       lipgloss.Color("#8BE9FD"),
	StatusInProgress: lipgloss.Color("#FFB86C"),
	StatusDone:       lipgloss.Color("#50FA7B"),

	Carried: lipgloss.Color("#FF79C6"),
}

// Gruvbox (dark) - https://github.com/morhetz/gruvbox
var Gruvbox = Theme{
	Name: "gruvbox",

	Background: lipgloss.Color("#282828"),
	Foreground: lipgloss.Color("#EBDBB2"),
	Subtle:     lipgloss.Color("#928374"),
	Highlight:  lipgloss.Color("#3C3836"),
	Border:     lipgloss.Color("#504945"),

	Primary:   lipgloss.Color("#83A598"),
	Secondary: lipgloss.Color("#8EC07C"),
	Info:      lipgloss.Color("#83A598"),
	Success:   lipgloss.Color("#B8BB26"),
	Warning:   lipgloss.Color("#FABD2F"),
	Error:     lipgloss.Color("#FB4934"),

	PriorityLow:    lipgloss.Color("#B8BB26"),
	PriorityMedium: lipgloss.Color("#FABD2F"),
	PriorityHigh:   lipgloss.Color("#FB4934"),

	StatusTodo:       lipgloss.Color("#83A598"),
	StatusInProgress: lipgloss.Color("#FE8019"),
	StatusDone:       lipgloss.Color("#B8BB26"),

	Carried: lipgloss.Color("#D3869B"),
}

// Catppuccin Mocha - https://github.com/catppuccin/catppuccin
var Catppuccin = Theme{
	Name: "catppuccin",

	Background: lipgloss.Color("#1E1E2E"),
	Foreground: lipgloss.Color("#CDD6F4"),
	Subtle:     lipgloss.Color("#6C7086"),
	Highlight:  lipgloss.Color("#313244"),
	Border:     lipgloss.Color("#45475A"),

	Primary:   lipgloss.Color("#89B4FA"),
	Secondary: lipgloss.Color("#CBA6F7"),
	Info:      lipgloss.Color("#74C7EC"),
	Success:   lipgloss.Color("#A6E3A1"),
	Warning:   lipgloss.Color("#F9E2AF"),
	Error:     lipgloss.Color("#F38BA8"),

	PriorityLow:    lipgloss.Color("#A6E3A1"),
	PriorityMedium: lipgloss.Color("#F9E2AF"),
	PriorityHigh:   lipgloss.Color("#F38BA8"),

	StatusTodo:       lipgloss.Color("#74C7EC"),
	StatusInProgress: lipgloss.Color("#FAB387"),
	StatusDone:       lipgloss.Color("#A6E3A1"),

	Carried: lipgloss.Color("#F5C2E7"),
}
